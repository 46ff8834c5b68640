package resolver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"cropproof/internal/api"
	"cropproof/internal/fault"
)

func maizeRecord() map[string]any {
	return map[string]any{
		"id":              "crop-1",
		"cropName":        "Maize",
		"quantity":        50,
		"measure":         "bags",
		"maizeVariety":    "Hybrid",
		"moisturePercent": 18,
		"willYouDryIt":    true,
		"farm": map[string]any{
			"village":  "Hosur",
			"taluk":    "Gubbi",
			"district": "Tumkur",
			"coordinates": map[string]any{
				"type":        "Point",
				"coordinates": []float64{77.12, 13.31},
			},
			"user": map[string]any{
				"id":           "owner-1",
				"name":         "Ravi Kumar",
				"mobileNumber": "+919876543210",
			},
		},
	}
}

func newCropServer(t *testing.T, record map[string]any) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/crop/get-crop-by-id/{id}", func(w http.ResponseWriter, req *http.Request) {
		if chi.URLParam(req, "id") != record["id"] {
			json.NewEncoder(w).Encode(map[string]any{"code": 404, "message": "not found"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"code": 200, "data": record})
	})
	r.Get("/crop/get-crop-by-user/{ownerId}", func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Query().Get("cropName") == "" {
			json.NewEncoder(w).Encode(map[string]any{"code": 400, "message": "cropName required"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"code": 200, "data": record})
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestByCropIDMapsMaizeListing(t *testing.T) {
	srv := newCropServer(t, maizeRecord())
	s := ByCropID{Client: &api.Client{CropBaseURL: srv.URL}}

	listing, err := s.Resolve(context.Background(), "crop-1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if listing.CropID != "crop-1" || listing.OwnerID != "owner-1" {
		t.Fatalf("ids = %q/%q", listing.CropID, listing.OwnerID)
	}
	if listing.Phone != "9876543210" {
		t.Fatalf("Phone = %q, want country prefix stripped", listing.Phone)
	}
	if listing.Quantity != "50 bags" {
		t.Fatalf("Quantity = %q, want %q", listing.Quantity, "50 bags")
	}
	if listing.Variety != "Hybrid" {
		t.Fatalf("Variety = %q", listing.Variety)
	}
	if listing.Moisture != "18" || listing.WillDry != "Yes" {
		t.Fatalf("maize fields = %q/%q", listing.Moisture, listing.WillDry)
	}
	if listing.Location == nil || listing.Location.Lat != 13.31 || listing.Location.Lng != 77.12 {
		t.Fatalf("Location = %+v, want lat/lng swapped from GeoJSON order", listing.Location)
	}
}

func TestByCropIDEmptyIdentifier(t *testing.T) {
	s := ByCropID{Client: &api.Client{}}
	_, err := s.Resolve(context.Background(), "")
	if !fault.Is(err, fault.KindConfiguration) {
		t.Fatalf("error = %v, want configuration fault", err)
	}
}

func TestByCropIDLookupFailure(t *testing.T) {
	srv := newCropServer(t, maizeRecord())
	s := ByCropID{Client: &api.Client{CropBaseURL: srv.URL}}
	_, err := s.Resolve(context.Background(), "missing")
	if !fault.Is(err, fault.KindContextUnavailable) {
		t.Fatalf("error = %v, want context-unavailable fault", err)
	}
	if got := fault.MessageOf(err, ""); got != "failed to load crop data" {
		t.Fatalf("message = %q", got)
	}
}

func TestByOwnerCrop(t *testing.T) {
	srv := newCropServer(t, maizeRecord())
	s := ByOwnerCrop{Client: &api.Client{CropBaseURL: srv.URL}}

	listing, err := s.Resolve(context.Background(), "owner-1/Maize")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if listing.CropName != "Maize" {
		t.Fatalf("CropName = %q", listing.CropName)
	}

	if _, err := s.Resolve(context.Background(), "owner-1"); !fault.Is(err, fault.KindConfiguration) {
		t.Fatalf("malformed identifier error = %v, want configuration fault", err)
	}
}

func TestFromRecordNonMaizeDropsMaizeFields(t *testing.T) {
	rec := api.CropRecord{
		ID:               "crop-2",
		CropName:         "Ragi",
		OtherVarietyName: "Local",
		MoisturePercent:  json.Number("16"),
	}
	listing := FromRecord(rec)
	if listing.Moisture != "" || listing.WillDry != "" {
		t.Fatalf("non-maize listing carries maize fields: %q/%q", listing.Moisture, listing.WillDry)
	}
	if listing.Variety != "Local" {
		t.Fatalf("Variety = %q, want fallback to otherVarietyName", listing.Variety)
	}
}

func TestFromRecordZeroMoistureDropped(t *testing.T) {
	rec := api.CropRecord{
		CropName:        "maize",
		MoisturePercent: json.Number("0"),
	}
	if got := FromRecord(rec).Moisture; got != "" {
		t.Fatalf("Moisture = %q, want zero treated as unset", got)
	}
}

func TestFromRecordWillDryNo(t *testing.T) {
	no := false
	rec := api.CropRecord{CropName: "maize", WillYouDryIt: &no}
	if got := FromRecord(rec).WillDry; got != "No" {
		t.Fatalf("WillDry = %q, want No", got)
	}
}
