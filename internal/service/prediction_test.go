package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/brewlog/brewlog/internal/model"
	"github.com/brewlog/brewlog/internal/predictor"
	"github.com/brewlog/brewlog/internal/repository"
)

type fakeHistoryStore struct {
	origin     string
	originErr  error
	history    []model.HistoryEntry
	historyErr error

	gotOwnerID  string
	gotBeanName string
	gotSince    time.Time
}

func (f *fakeHistoryStore) GetBeanHistory(ctx context.Context, ownerID, beanName string, since time.Time) ([]model.HistoryEntry, error) {
	f.gotOwnerID = ownerID
	f.gotBeanName = beanName
	f.gotSince = since
	return f.history, f.historyErr
}

func (f *fakeHistoryStore) GetBeanOrigin(ctx context.Context, ownerID, beanName string) (string, error) {
	f.gotOwnerID = ownerID
	f.gotBeanName = beanName
	return f.origin, f.originErr
}

type fakePredictor struct {
	result *model.PredictionResult
	err    error
	got    *model.EnrichedPredictionRequest
}

func (f *fakePredictor) Predict(ctx context.Context, req *model.EnrichedPredictionRequest) (*model.PredictionResult, error) {
	f.got = req
	return f.result, f.err
}

func floatPtr(v float64) *float64 { return &v }

func validRequest() *model.PredictionRequest {
	return &model.PredictionRequest{
		BeanName:    "Yirgacheffe",
		Date:        "2026-08-30",
		Weather:     "Clear",
		Temperature: floatPtr(24.5),
		Humidity:    floatPtr(55),
	}
}

func TestPredictEnrichesWithBeanOrigin(t *testing.T) {
	store := &fakeHistoryStore{origin: "Ethiopia"}
	pc := &fakePredictor{result: &model.PredictionResult{Body: json.RawMessage(`{"gram":15.2}`)}}
	svc := NewPredictionService(store, pc, nil, nil, 0, nil)
	caller := &model.User{ID: "u1"}

	result, err := svc.Predict(context.Background(), caller, validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if pc.got == nil {
		t.Fatal("predictor was not called")
	}
	if pc.got.BeanOrigin != "Ethiopia" {
		t.Errorf("bean_origin = %q, want %q", pc.got.BeanOrigin, "Ethiopia")
	}
	if pc.got.BeanName != "Yirgacheffe" {
		t.Errorf("bean_name = %q, want %q", pc.got.BeanName, "Yirgacheffe")
	}
	if store.gotOwnerID != "u1" {
		t.Errorf("origin lookup owner = %q, want caller id", store.gotOwnerID)
	}
	if string(result.Body) != `{"gram":15.2}` {
		t.Errorf("body = %s, want verbatim passthrough", result.Body)
	}
}

func TestPredictUnknownBeanDefaultsOrigin(t *testing.T) {
	store := &fakeHistoryStore{originErr: repository.ErrBeanNotFound}
	pc := &fakePredictor{result: &model.PredictionResult{Body: json.RawMessage(`{}`)}}
	svc := NewPredictionService(store, pc, nil, nil, 0, nil)

	_, err := svc.Predict(context.Background(), &model.User{ID: "u1"}, validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pc.got.BeanOrigin != model.DefaultBeanOrigin {
		t.Fatalf("bean_origin = %q, want default %q", pc.got.BeanOrigin, model.DefaultBeanOrigin)
	}
}

func TestPredictOriginLookupFailure(t *testing.T) {
	store := &fakeHistoryStore{originErr: errors.New("connection reset")}
	pc := &fakePredictor{}
	svc := NewPredictionService(store, pc, nil, nil, 0, nil)

	_, err := svc.Predict(context.Background(), &model.User{ID: "u1"}, validRequest())
	if err == nil {
		t.Fatal("expected error for storage failure")
	}
	if pc.got != nil {
		t.Fatal("predictor should not be called when origin lookup fails")
	}
}

func TestPredictRejectedMapsDetail(t *testing.T) {
	store := &fakeHistoryStore{origin: "Ethiopia"}
	pc := &fakePredictor{err: &predictor.Error{StatusCode: 422, Detail: "model not trained for this bean"}}
	svc := NewPredictionService(store, pc, nil, nil, 0, nil)

	_, err := svc.Predict(context.Background(), &model.User{ID: "u1"}, validRequest())

	var rejected *PredictionRejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected PredictionRejectedError, got %T: %v", err, err)
	}
	if rejected.Detail != "model not trained for this bean" {
		t.Fatalf("detail = %q", rejected.Detail)
	}
}

func TestPredictUnavailable(t *testing.T) {
	store := &fakeHistoryStore{origin: "Ethiopia"}
	pc := &fakePredictor{err: fmt.Errorf("%w: connection refused", predictor.ErrUnavailable)}
	svc := NewPredictionService(store, pc, nil, nil, 0, nil)

	_, err := svc.Predict(context.Background(), &model.User{ID: "u1"}, validRequest())
	if !errors.Is(err, ErrPredictorUnavailable) {
		t.Fatalf("expected ErrPredictorUnavailable, got %v", err)
	}
}

func TestPredictValidationErrors(t *testing.T) {
	svc := NewPredictionService(&fakeHistoryStore{}, &fakePredictor{}, nil, nil, 0, nil)
	caller := &model.User{ID: "u1"}

	tests := []struct {
		name   string
		mutate func(*model.PredictionRequest)
	}{
		{"missing_bean_name", func(r *model.PredictionRequest) { r.BeanName = "" }},
		{"missing_date", func(r *model.PredictionRequest) { r.Date = "" }},
		{"missing_weather", func(r *model.PredictionRequest) { r.Weather = "" }},
		{"missing_temperature", func(r *model.PredictionRequest) { r.Temperature = nil }},
		{"missing_humidity", func(r *model.PredictionRequest) { r.Humidity = nil }},
		{"negative_days_passed", func(r *model.PredictionRequest) { r.DaysSinceRoast = floatPtr(-1) }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := validRequest()
			test.mutate(req)
			_, err := svc.Predict(context.Background(), caller, req)
			if !IsValidationError(err) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestHistoryWindowAndScope(t *testing.T) {
	store := &fakeHistoryStore{history: []model.HistoryEntry{{Date: "2026-01-05", Weather: "Rain"}}}
	svc := NewPredictionService(store, &fakePredictor{}, nil, nil, 0, nil)

	entries, err := svc.History(context.Background(), &model.User{ID: "u7"}, "Yirgacheffe")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if store.gotOwnerID != "u7" || store.gotBeanName != "Yirgacheffe" {
		t.Fatalf("lookup scoped to (%q, %q)", store.gotOwnerID, store.gotBeanName)
	}

	wantSince := time.Now().UTC().AddDate(0, 0, -historyDays)
	if diff := store.gotSince.Sub(wantSince); diff < -time.Minute || diff > time.Minute {
		t.Fatalf("since = %v, want about %v", store.gotSince, wantSince)
	}
}

func TestHistoryRequiresBeanName(t *testing.T) {
	svc := NewPredictionService(&fakeHistoryStore{}, &fakePredictor{}, nil, nil, 0, nil)

	_, err := svc.History(context.Background(), &model.User{ID: "u1"}, "")
	if !IsValidationError(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
