package diagnose

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"math"
	"net/http"
	"sort"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v4"
	"github.com/ougirez/kisannetra/internal/domain"
	"github.com/ougirez/kisannetra/internal/pkg/constants"
	"github.com/ougirez/kisannetra/internal/pkg/logger"
)

const (
	deviceUnloaded = "unloaded"
	maxRetries     = 2
)

type Options struct {
	URL     string
	Device  string
	Timeout time.Duration
}

type Classifier struct {
	url    string
	device string
	labels []string
	client *http.Client
}

type logitsResponse struct {
	Logits []float64 `json:"logits"`
}

func NewClassifier(opts Options) *Classifier {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Classifier{
		url:    opts.URL,
		device: opts.Device,
		labels: Labels(),
		client: &http.Client{Timeout: timeout},
	}
}

func (c *Classifier) Labels() []string {
	out := make([]string, len(c.labels))
	copy(out, c.labels)
	return out
}

func (c *Classifier) Loaded() bool {
	return c.url != ""
}

func (c *Classifier) Device() string {
	if !c.Loaded() {
		return deviceUnloaded
	}
	if c.device == "" {
		return "cpu"
	}
	return c.device
}

// Predict returns up to topk predictions ordered by descending probability.
func (c *Classifier) Predict(ctx context.Context, img image.Image, topk int) ([]domain.Prediction, error) {
	if !c.Loaded() {
		return nil, constants.ErrModelUnavailable
	}
	if topk <= 0 {
		return nil, fmt.Errorf("%w: topk must be positive", constants.ErrInvalidInput)
	}

	body, err := encodePNG(Preprocess(img))
	if err != nil {
		return nil, err
	}

	logits, err := c.fetchLogits(ctx, body)
	if err != nil {
		return nil, err
	}

	return TopK(Softmax(logits), c.labels, topk), nil
}

func (c *Classifier) fetchLogits(ctx context.Context, body []byte) ([]float64, error) {
	var out logitsResponse
	err := backoff.RetryNotify(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
			if err != nil {
				return backoff.Permanent(fmt.Errorf("http.NewRequest: %w", err))
			}
			req.Header.Set("Content-Type", "image/png")

			resp, err := c.client.Do(req)
			if err != nil {
				return fmt.Errorf("client.Do: %w", err)
			}
			defer resp.Body.Close()

			raw, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("read body: %w", err)
			}
			if resp.StatusCode >= http.StatusInternalServerError {
				return fmt.Errorf("model status %d", resp.StatusCode)
			}
			if resp.StatusCode != http.StatusOK {
				return backoff.Permanent(fmt.Errorf("model status %d", resp.StatusCode))
			}
			if err := sonic.Unmarshal(raw, &out); err != nil {
				return backoff.Permanent(fmt.Errorf("decode logits: %w", err))
			}
			return nil
		},
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(50*time.Millisecond), maxRetries),
			ctx,
		),
		func(err error, d time.Duration) {
			logger.Warnf(ctx, "model call failed, retry in %s: %v", d, err)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", constants.ErrModelUnavailable, err.Error())
	}
	if len(out.Logits) == 0 {
		return nil, fmt.Errorf("%w: empty logits", constants.ErrModelUnavailable)
	}
	return out.Logits, nil
}

func Softmax(logits []float64) []float64 {
	if len(logits) == 0 {
		return nil
	}
	peak := logits[0]
	for _, v := range logits[1:] {
		peak = math.Max(peak, v)
	}

	probs := make([]float64, len(logits))
	var sum float64
	for i, v := range logits {
		probs[i] = math.Exp(v - peak)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// TopK keeps index order among equal probabilities.
func TopK(probs []float64, labels []string, k int) []domain.Prediction {
	idx := make([]int, len(probs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return probs[idx[a]] > probs[idx[b]] })

	k = min(k, len(idx))
	out := make([]domain.Prediction, 0, k)
	for _, i := range idx[:k] {
		out = append(out, domain.Prediction{Label: labelAt(labels, i), Prob: probs[i]})
	}
	return out
}
