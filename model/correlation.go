package model

import "time"

// Correlation is one admin-seeded synonym correlation (§4.4, §3): Word is
// treated as related to Synonym at Closeness. SearchProperty records the
// property it was created under (empty for a global one) and filters
// listing; searches apply every stored correlation to the whole
// index, whatever its SearchProperty. These are the manually-curated
// correlations that sit alongside the automatic sigil correlations FTSIndex
// derives on its own.
type Correlation struct {
	ID             string    `json:"id"`
	SearchProperty string    `json:"searchProperty"`
	Word           string    `json:"word"`
	Synonym        string    `json:"synonym"`
	Closeness      float64   `json:"closeness"`
	CreatedAt      time.Time `json:"createdAt"`
}
