package submit

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"cropproof/internal/api"
	"cropproof/internal/domain"
	"cropproof/internal/fault"
	"cropproof/internal/imaging"
)

// passthrough skips real JPEG work so the tests exercise the pipeline, not
// the codec.
type passthrough struct{}

func (passthrough) Compress(ctx context.Context, encoded []byte, opts imaging.Options) ([]byte, error) {
	return encoded, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func maizeListing() domain.Listing {
	return domain.Listing{
		CropID:   "crop-1",
		FullName: "Ravi Kumar",
		Phone:    "9876543210",
		Village:  "Hosur",
		CropName: "Maize",
		Quantity: "50 bags",
		Variety:  "Hybrid",
		Moisture: "18",
		WillDry:  "Yes",
	}
}

func photos(n int) []domain.CapturedPhoto {
	out := make([]domain.CapturedPhoto, n)
	for i := range out {
		out[i] = domain.CapturedPhoto{Index: i, JPEG: []byte{byte(i)}}
	}
	return out
}

func acceptingServer(t *testing.T, capture *map[string][]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if err := req.ParseMultipartForm(16 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
		}
		if capture != nil {
			*capture = req.MultipartForm.Value
		}
		json.NewEncoder(w).Encode(map[string]any{
			"statusCode": 200,
			"data":       map[string]any{"id": "req-1", "isResubmission": false},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSubmitSuccess(t *testing.T) {
	var form map[string][]string
	srv := acceptingServer(t, &form)
	p := Pipeline{
		Client:     &api.Client{SubmitURL: srv.URL},
		Compressor: passthrough{},
		Logger:     quietLogger(),
	}

	receipt, err := p.Submit(context.Background(), maizeListing(), nil, photos(2))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if receipt.RequestID != "req-1" {
		t.Fatalf("receipt = %+v", receipt)
	}
	if got := form["moisture"]; len(got) != 1 || got[0] != "18" {
		t.Fatalf("moisture = %v, want transmitted for maize", got)
	}
	if got := form["willDry"]; len(got) != 1 || got[0] != "Yes" {
		t.Fatalf("willDry = %v", got)
	}
}

func TestSubmitNonMaizeOmitsMaizeFields(t *testing.T) {
	var form map[string][]string
	srv := acceptingServer(t, &form)
	p := Pipeline{Client: &api.Client{SubmitURL: srv.URL}, Compressor: passthrough{}, Logger: quietLogger()}

	listing := maizeListing()
	listing.CropName = "Ragi"
	if _, err := p.Submit(context.Background(), listing, nil, photos(1)); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, ok := form["moisture"]; ok {
		t.Fatal("moisture transmitted for a non-maize listing")
	}
	if _, ok := form["willDry"]; ok {
		t.Fatal("willDry transmitted for a non-maize listing")
	}
}

func TestSubmitPreconditionOrder(t *testing.T) {
	p := Pipeline{Logger: quietLogger()}
	blocked := &domain.VerificationState{CanSubmit: false, BlockMessage: "under review"}

	// No photos wins over everything else.
	_, err := p.Submit(context.Background(), domain.Listing{}, blocked, nil)
	if !fault.Is(err, fault.KindNoPhoto) {
		t.Fatalf("err = %v, want no-photo fault first", err)
	}

	// Then the missing crop id.
	_, err = p.Submit(context.Background(), domain.Listing{}, blocked, photos(1))
	if !fault.Is(err, fault.KindConfiguration) {
		t.Fatalf("err = %v, want configuration fault second", err)
	}

	// Then the eligibility block, carrying the service's message.
	_, err = p.Submit(context.Background(), maizeListing(), blocked, photos(1))
	if !fault.Is(err, fault.KindSubmissionBlocked) {
		t.Fatalf("err = %v, want submission-blocked fault third", err)
	}
	if got := fault.MessageOf(err, ""); got != "under review" {
		t.Fatalf("message = %q", got)
	}
}

func TestSubmitUnknownEligibilityProceeds(t *testing.T) {
	srv := acceptingServer(t, nil)
	p := Pipeline{Client: &api.Client{SubmitURL: srv.URL}, Compressor: passthrough{}, Logger: quietLogger()}
	if _, err := p.Submit(context.Background(), maizeListing(), nil, photos(1)); err != nil {
		t.Fatalf("Submit with nil state: %v", err)
	}
}

func TestSubmitConflictBecomesBlocked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]any{"message": "verification already pending"})
	}))
	t.Cleanup(srv.Close)
	p := Pipeline{Client: &api.Client{SubmitURL: srv.URL}, Compressor: passthrough{}, Logger: quietLogger()}

	_, err := p.Submit(context.Background(), maizeListing(), nil, photos(1))
	if !fault.Is(err, fault.KindSubmissionBlocked) {
		t.Fatalf("err = %v, want submission-blocked for 409", err)
	}
	if got := fault.MessageOf(err, ""); got != "verification already pending" {
		t.Fatalf("message = %q", got)
	}
}

func TestSubmitServerErrorBecomesFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)
	p := Pipeline{Client: &api.Client{SubmitURL: srv.URL}, Compressor: passthrough{}, Logger: quietLogger()}

	_, err := p.Submit(context.Background(), maizeListing(), nil, photos(1))
	if !fault.Is(err, fault.KindSubmissionFailed) {
		t.Fatalf("err = %v, want submission-failed", err)
	}
}

func TestCompressAllPreservesOrder(t *testing.T) {
	p := Pipeline{Compressor: passthrough{}, Logger: quietLogger()}
	out, err := p.compressAll(context.Background(), photos(3))
	if err != nil {
		t.Fatalf("compressAll: %v", err)
	}
	for i, b := range out {
		if len(b) != 1 || b[0] != byte(i) {
			t.Fatalf("photo %d out of order: %v", i, b)
		}
	}
}
