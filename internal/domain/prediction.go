package domain

type Prediction struct {
	Label string  `json:"label"`
	Prob  float64 `json:"prob"`
}
