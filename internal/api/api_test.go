package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ougirez/kisannetra/internal/domain"
	"github.com/ougirez/kisannetra/internal/pkg/config"
	"github.com/ougirez/kisannetra/internal/pkg/constants"
	"github.com/ougirez/kisannetra/internal/pkg/store"
	"github.com/ougirez/kisannetra/internal/service/diagnose"
	"github.com/ougirez/kisannetra/internal/service/prices"
	"github.com/ougirez/kisannetra/internal/service/recommend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	handler http.Handler
	store   store.Store
}

func newTestEnv(t *testing.T, modelURL string) *testEnv {
	t.Helper()
	ctx := context.Background()

	st, err := store.Open(ctx, "sqlite:///"+filepath.Join(t.TempDir(), "api.db"), 0)
	require.NoError(t, err)
	t.Cleanup(st.Close)
	require.NoError(t, st.Migrate(ctx))

	cfg := &config.Config{LogLevel: "error", ModelTopK: 3, CORSOrigins: []string{"*"}}
	svc := NewAPIService(cfg, "1.2.3", Services{
		Recommend:  recommend.NewRecommendService(st),
		Prices:     prices.NewPricesService(st),
		Classifier: diagnose.NewClassifier(diagnose.Options{URL: modelURL, Device: "cpu"}),
	})

	return &testEnv{handler: svc.Handler(), store: st}
}

func (e *testEnv) do(t *testing.T, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) upload(t *testing.T, path, field, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("other", "x"))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) seed(t *testing.T, offers ...*domain.Offer) {
	t.Helper()
	for _, o := range offers {
		_, err := e.store.InsertOffer(context.Background(), o)
		require.NoError(t, err)
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func offerAB() []*domain.Offer {
	return []*domain.Offer{
		{District: "Hyderabad", Dealer: "D1", ProductName: "A", Brand: "BA", Crop: "Tomato",
			Disease: "Tomato___Early_blight", UnitPriceINR: domain.Float(500), ExpectedYieldGainPct: domain.Float(10)},
		{District: "Hyderabad", Dealer: "D2", ProductName: "B", Brand: "BB", Crop: "Tomato",
			Disease: "Tomato___Early_blight", UnitPriceINR: domain.Float(2000), ExpectedYieldGainPct: domain.Float(15)},
	}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 40, 30))))
	return buf.Bytes()
}

func TestMeta(t *testing.T) {
	env := newTestEnv(t, "")

	rec := env.do(t, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]interface{}{"status": "ok", "device": "unloaded"}, decode(t, rec))

	rec = env.do(t, http.MethodGet, "/api/version", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1.2.3", decode(t, rec)["version"])

	rec = env.do(t, http.MethodGet, "/api/labels", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var labels []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &labels))
	assert.Len(t, labels, 38)

	rec = env.do(t, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestRecommend(t *testing.T) {
	env := newTestEnv(t, "")

	t.Run("no offers", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/recommend", `{}`)
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, map[string]interface{}{"message": constants.NoOffersMessage}, decode(t, rec))
	})

	env.seed(t, offerAB()...)

	t.Run("defaults", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/recommend", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		body := decode(t, rec)
		assert.Equal(t, "A", body["best_product"])
		assert.Equal(t, "BA", body["brand"])
		assert.Equal(t, "D1", body["dealer"])
		assert.Equal(t, 500.0, body["unit_price_inr"])
		assert.Equal(t, 10.0, body["expected_yield_gain_pct"])
		assert.Equal(t, 1500.0, body["expected_profit_inr"])
		assert.Equal(t, "Estimated gain 2000 - cost 500 = profit 1500 INR", body["rationale"])
	})

	t.Run("numeric strings and case", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/recommend",
			`{"district":"hyderabad","crop":"TOMATO","baseline_price_per_kg":"100","acreage":2}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		// revenue 200000: A 19500, B 28000
		assert.Equal(t, "B", decode(t, rec)["best_product"])
	})

	t.Run("other key", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/recommend", `{"district":"Guntur"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid", func(t *testing.T) {
		for _, body := range []string{`{"acreage":-1}`, `{"baseline_price_per_kg":"abc"}`, `{"acreage":true}`, `{`} {
			rec := env.do(t, http.MethodPost, "/api/recommend", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		}
	})

	t.Run("invalid number message", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/recommend", `{"baseline_price_per_kg":"abc"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		msg, _ := decode(t, rec)["message"].(string)
		assert.Equal(t, 1, strings.Count(msg, constants.ErrInvalidInput.Error()), msg)
		assert.Contains(t, msg, "abc")
	})

	t.Run("revenue overflow", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/recommend", `{"baseline_price_per_kg":20.0,"acreage":1e308}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	})

	t.Run("candidates", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/recommend/candidates", `{}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Candidates []domain.Candidate `json:"candidates"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Candidates, 2)
		assert.Equal(t, "A", resp.Candidates[0].ProductName)
		assert.Equal(t, 1000.0, resp.Candidates[1].ExpectedProfitINR)

		rec = env.do(t, http.MethodPost, "/api/recommend/candidates", `{"crop":"Rice"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestPricesCRUD(t *testing.T) {
	env := newTestEnv(t, "")

	rec := env.do(t, http.MethodPost, "/api/prices",
		`{"district":"Hyderabad","crop":"Tomato","disease":"Tomato___Early_blight","product_name":"A","unit_price_inr":"450","expected_yield_gain_pct":12}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)
	assert.Equal(t, 450.0, created["unit_price_inr"])
	id := int64(created["id"].(float64))
	require.NotZero(t, id)

	rec = env.do(t, http.MethodPost, "/api/prices", `{"crop":"Tomato","disease":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = env.do(t, http.MethodPost, "/api/prices", `{"district":"a","crop":"b","disease":"c","unit_price_inr":-3}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	path := "/api/prices/" + jsonNumber(id)
	rec = env.do(t, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "A", decode(t, rec)["product_name"])

	rec = env.do(t, http.MethodPut, path, `{"district":"Hyderabad","crop":"Tomato","disease":"Tomato___Early_blight","product_name":"A2"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode(t, rec)
	assert.Equal(t, "A2", updated["product_name"])
	assert.Nil(t, updated["unit_price_inr"])

	rec = env.do(t, http.MethodGet, "/api/prices", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []domain.Offer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	rec = env.do(t, http.MethodGet, "/api/prices/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(t, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = env.do(t, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = env.do(t, http.MethodPut, path, `{"district":"a","crop":"b","disease":"c"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/prices", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func jsonNumber(id int64) string {
	raw, _ := json.Marshal(id)
	return string(raw)
}

func TestPricesExportImport(t *testing.T) {
	env := newTestEnv(t, "")
	env.seed(t, offerAB()...)

	rec := env.do(t, http.MethodGet, "/api/prices/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "prices.csv")
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(domain.OfferColumns, ","), lines[0])
	exported := rec.Body.Bytes()

	rec = env.upload(t, "/api/prices/import", "file", "prices.csv", exported)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 2.0, decode(t, rec)["imported"])

	count, err := env.store.CountOffers(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 4, count)

	rec = env.upload(t, "/api/prices/import?mode=replace", "file", "prices.csv", exported)
	require.Equal(t, http.StatusOK, rec.Code)
	count, err = env.store.CountOffers(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	rec = env.upload(t, "/api/prices/import", "file", "bad.csv", []byte("district,crop\nx,y\n"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["message"], "missing columns")

	rec = env.upload(t, "/api/prices/import", "", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.upload(t, "/api/prices/import?mode=merge", "file", "prices.csv", exported)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStoreDown(t *testing.T) {
	env := newTestEnv(t, "")
	env.seed(t, offerAB()...)
	env.store.Close()

	for _, path := range []string{"/api/prices/export", "/api/prices"} {
		rec := env.do(t, http.MethodGet, path, "")
		require.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
		body := decode(t, rec)
		assert.Equal(t, constants.ErrStoreUnavailable.Error(), body["message"], path)
		assert.NotContains(t, rec.Body.String(), "sql:", path)
	}

	rec := env.do(t, http.MethodPost, "/api/recommend", `{}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestPredict(t *testing.T) {
	t.Run("no image", func(t *testing.T) {
		env := newTestEnv(t, "")
		rec := env.upload(t, "/api/predict", "", "", nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, map[string]interface{}{"error": "no image"}, decode(t, rec))
	})

	t.Run("not an image", func(t *testing.T) {
		env := newTestEnv(t, "")
		rec := env.upload(t, "/api/predict", "image", "leaf.png", []byte("garbage"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("model unavailable", func(t *testing.T) {
		env := newTestEnv(t, "")
		rec := env.upload(t, "/api/predict", "image", "leaf.png", pngBytes(t))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("ok", func(t *testing.T) {
		model := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logits := make([]float64, 38)
			logits[29] = 5
			logits[30] = 3
			logits[0] = 1
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"logits": logits})
		}))
		t.Cleanup(model.Close)

		env := newTestEnv(t, model.URL)
		rec := env.do(t, http.MethodGet, "/api/health", "")
		assert.Equal(t, "cpu", decode(t, rec)["device"])

		rec = env.upload(t, "/api/predict", "image", "leaf.png", pngBytes(t))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp struct {
			Predictions []domain.Prediction `json:"predictions"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Predictions, 3)
		assert.Equal(t, "Tomato___Early_blight", resp.Predictions[0].Label)
		assert.Equal(t, "Tomato___Late_blight", resp.Predictions[1].Label)
		assert.Equal(t, "Apple___Apple_scab", resp.Predictions[2].Label)

		rec = env.upload(t, "/api/predict?topk=1", "image", "leaf.png", pngBytes(t))
		require.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Predictions, 1)
	})
}
