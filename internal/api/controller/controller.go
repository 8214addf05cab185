package controller

import (
	"github.com/ougirez/kisannetra/internal/service/diagnose"
	"github.com/ougirez/kisannetra/internal/service/prices"
	"github.com/ougirez/kisannetra/internal/service/recommend"
)

type Deps struct {
	Recommend  *recommend.Service
	Prices     *prices.Service
	Classifier *diagnose.Classifier
	Version    string
	TopK       int
}

type Controller struct {
	recommend  *recommend.Service
	prices     *prices.Service
	classifier *diagnose.Classifier
	version    string
	topK       int
}

func NewController(deps Deps) *Controller {
	topK := deps.TopK
	if topK <= 0 {
		topK = 3
	}
	return &Controller{
		recommend:  deps.Recommend,
		prices:     deps.Prices,
		classifier: deps.Classifier,
		version:    deps.Version,
		topK:       topK,
	}
}
