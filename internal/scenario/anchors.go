package scenario

import "time"

// AnchorSpec names one candidate anchor date for scenario generation.
type AnchorSpec struct {
	Date    time.Time
	Context string
}

func anchor(year int, month time.Month, context string) AnchorSpec {
	return AnchorSpec{
		Date:    time.Date(year, month, 1, 0, 0, 0, 0, time.UTC),
		Context: context,
	}
}

// DefaultAnchors returns the curated anchor dates covering the
// interesting economic periods of the dataset.
func DefaultAnchors() []AnchorSpec {
	return []AnchorSpec{
		anchor(1973, time.January, "Oil Crisis & Stagflation"),
		anchor(1980, time.January, "Volcker Shock - Peak Interest Rates"),
		anchor(1982, time.January, "Early 80s Recession"),
		anchor(1987, time.June, "Pre-Black Monday"),
		anchor(1990, time.June, "Gulf War Recession"),
		anchor(1998, time.January, "Asian Financial Crisis & LTCM"),
		anchor(2000, time.January, "Dot-com Peak"),
		anchor(2002, time.June, "Post Dot-com Recovery"),
		anchor(2006, time.January, "Housing Boom Peak"),
		anchor(2007, time.June, "Pre-Financial Crisis"),
		anchor(2008, time.June, "Global Financial Crisis"),
		anchor(2010, time.January, "Post-GFC Recovery"),
		anchor(2012, time.January, "European Debt Crisis"),
		anchor(2016, time.January, "Post-Oil Crash"),
		anchor(2018, time.January, "Late Cycle Expansion"),
		anchor(2020, time.January, "Pre-COVID Peak"),
	}
}
