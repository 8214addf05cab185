package dto

import "github.com/ougirez/kisannetra/internal/domain"

// RecommendRequest is the body of POST /api/recommend. Absent fields take defaults.
type RecommendRequest struct {
	District           *string `json:"district"`
	Crop               *string `json:"crop"`
	Disease            *string `json:"disease"`
	BaselinePricePerKg *Number `json:"baseline_price_per_kg"`
	Acreage            *Number `json:"acreage"`
}

func (r *RecommendRequest) Query() domain.Query {
	q := domain.DefaultQuery()
	if r.District != nil {
		q.District = *r.District
	}
	if r.Crop != nil {
		q.Crop = *r.Crop
	}
	if r.Disease != nil {
		q.Disease = *r.Disease
	}
	if r.BaselinePricePerKg != nil {
		q.BaselinePricePerKg = float64(*r.BaselinePricePerKg)
	}
	if r.Acreage != nil {
		q.Acreage = float64(*r.Acreage)
	}
	return q
}

type CandidatesResponse struct {
	Candidates []*domain.Candidate `json:"candidates"`
}
