package game

// historicalDescriptions maps a scenario's historical context to the
// longer narrative shown at reveal.
var historicalDescriptions = map[string]string{
	"Oil Crisis & Stagflation": "The 1973 oil embargo sent shockwaves through the global economy. " +
		"OPEC's production cuts quadrupled oil prices, triggering a severe recession combined with " +
		"high inflation, a toxic combination known as 'stagflation.' The stock market lost nearly " +
		"half its value, while gold and commodities soared as investors fled to inflation hedges.",

	"Volcker Shock - Peak Interest Rates": "Fed Chairman Paul Volcker launched an aggressive " +
		"campaign to break the back of inflation, raising the federal funds rate to an unprecedented " +
		"20%. The resulting recession was severe but ultimately succeeded in taming double-digit " +
		"inflation. This period marked the beginning of a historic bull market in bonds as rates " +
		"began their multi-decade decline.",

	"Early 80s Recession": "The economy was emerging from the deepest recession since the Great " +
		"Depression. Unemployment had peaked above 10%, but with inflation finally under control, " +
		"the Fed began cutting rates. This set the stage for a powerful economic recovery and one " +
		"of the greatest bull markets in history.",

	"Pre-Black Monday": "Markets had been on a tear, with the S&P 500 up over 40% in the preceding " +
		"year. Valuations were stretched, and program trading was increasingly prevalent. The stage " +
		"was set for the October 1987 crash, when the Dow Jones fell 22.6% in a single day, the " +
		"largest one-day percentage decline in history.",

	"Gulf War Recession": "Iraq's invasion of Kuwait sent oil prices spiking and consumer " +
		"confidence plummeting. The U.S. entered a brief but sharp recession, with the savings and " +
		"loan crisis adding to financial sector stress. However, the swift military victory and " +
		"falling oil prices set the stage for recovery.",

	"Asian Financial Crisis & LTCM": "Currency crises swept through Asian economies, causing " +
		"global market turmoil. The collapse of Long-Term Capital Management, a massive hedge fund, " +
		"nearly destabilized the entire financial system. The Fed orchestrated an emergency bailout " +
		"and cut rates, eventually steadying markets. This period foreshadowed the risks of " +
		"excessive leverage in financial markets.",

	"Dot-com Peak": "The technology bubble had reached its zenith. Companies with no profits " +
		"commanded billion-dollar valuations based on 'eyeballs' and 'clicks.' The NASDAQ would " +
		"soon lose 78% of its value as the bubble burst, marking one of the most spectacular market " +
		"crashes in history. Traditional value investors who had been mocked for years were finally " +
		"vindicated.",

	"Post Dot-com Recovery": "The economy was recovering from the tech bust and 9/11 attacks. The " +
		"Fed had slashed rates to just 1%, sparking a housing boom and hunt for yield. While stocks " +
		"began to recover, the seeds of the next crisis were being planted in the mortgage market.",

	"Housing Boom Peak": "The housing market was in full bubble territory. Subprime mortgages were " +
		"being packaged into complex securities and sold worldwide. Home prices had doubled in many " +
		"markets. Few recognized that this would become the worst financial crisis since the Great " +
		"Depression, with home prices falling 30% nationally and the banking system nearly " +
		"collapsing.",

	"Pre-Financial Crisis": "Warning signs were emerging. Subprime mortgage delinquencies were " +
		"rising, and Bear Stearns hedge funds had already collapsed. Yet the stock market hit " +
		"all-time highs, with many experts dismissing concerns as overblown. Within 18 months, the " +
		"S&P 500 would lose more than half its value.",

	"Global Financial Crisis": "Lehman Brothers had just collapsed, triggering a global panic. " +
		"Credit markets froze, and the financial system stood on the brink of total collapse. " +
		"Massive government interventions, TARP, Fed emergency lending, and fiscal stimulus would " +
		"eventually stabilize the system. Stocks would bottom in March 2009, beginning one of the " +
		"longest bull markets in history.",

	"Post-GFC Recovery": "The economy was slowly recovering from the worst recession in 80 years. " +
		"The Fed's quantitative easing programs kept rates near zero and flooded markets with " +
		"liquidity. European sovereign debt concerns created periodic scares, but markets continued " +
		"their upward march.",

	"European Debt Crisis": "Greece's debt crisis threatened to unravel the eurozone. Fears of " +
		"contagion to Italy and Spain sent bond yields soaring and stocks tumbling. ECB President " +
		"Mario Draghi's pledge to do 'whatever it takes' to save the euro eventually calmed markets. " +
		"U.S. markets proved resilient.",

	"Post-Oil Crash": "Oil prices had collapsed from over $100 to below $30 per barrel, " +
		"devastating energy companies and emerging markets. China growth fears added to the " +
		"turmoil, with the S&P 500 experiencing its worst start to a year ever. However, the U.S. " +
		"consumer benefited from cheap gas, and markets recovered strongly.",

	"Late Cycle Expansion": "The economic expansion was getting long in the tooth. The Fed was " +
		"gradually raising rates from post-crisis lows. Trade tensions with China were escalating, " +
		"and the yield curve was flattening, historically a recession warning signal. Volatility " +
		"returned in late 2018 with a sharp correction.",

	"Pre-COVID Peak": "Markets had just hit all-time highs, with unemployment at 50-year lows. " +
		"Few anticipated that a novel coronavirus emerging in China would trigger a global " +
		"pandemic, the fastest bear market in history (falling 34% in just 23 days), and " +
		"unprecedented fiscal and monetary stimulus. The subsequent recovery would be equally " +
		"dramatic.",
}

// HistoricalDescription returns the narrative for a context label, or
// an empty string when none is curated.
func HistoricalDescription(context string) string {
	return historicalDescriptions[context]
}
