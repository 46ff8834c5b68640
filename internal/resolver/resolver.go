// Package resolver turns a listing identifier into a fully populated
// Listing. Two interchangeable strategies exist: by crop id, and by owner
// plus crop name.
package resolver

import (
	"context"
	"strings"

	"cropproof/internal/api"
	"cropproof/internal/domain"
	"cropproof/internal/fault"
)

// Strategy resolves a listing identifier into a Listing. A failed lookup is
// terminal for the session and is reported as a context-unavailable fault.
type Strategy interface {
	Resolve(ctx context.Context, identifier string) (domain.Listing, error)
}

// ByCropID resolves the identifier as a crop id.
type ByCropID struct {
	Client *api.Client
}

func (s ByCropID) Resolve(ctx context.Context, identifier string) (domain.Listing, error) {
	if identifier == "" {
		return domain.Listing{}, fault.New(fault.KindConfiguration, "crop id is required")
	}
	rec, err := s.Client.CropByID(ctx, identifier)
	if err != nil {
		return domain.Listing{}, fault.Wrap(fault.KindContextUnavailable, "failed to load crop data", err)
	}
	listing := FromRecord(rec)
	listing.CropID = identifier
	return listing, nil
}

// ByOwnerCrop resolves an identifier of the form "ownerID/cropName".
type ByOwnerCrop struct {
	Client *api.Client
}

func (s ByOwnerCrop) Resolve(ctx context.Context, identifier string) (domain.Listing, error) {
	ownerID, cropName, ok := strings.Cut(identifier, "/")
	if !ok || ownerID == "" || cropName == "" {
		return domain.Listing{}, fault.New(fault.KindConfiguration, "owner id and crop name are required")
	}
	rec, err := s.Client.CropByOwner(ctx, ownerID, cropName)
	if err != nil {
		return domain.Listing{}, fault.Wrap(fault.KindContextUnavailable, "failed to load crop data", err)
	}
	listing := FromRecord(rec)
	if listing.OwnerID == "" {
		listing.OwnerID = ownerID
	}
	return listing, nil
}

// FromRecord maps a crop service record into the Listing the workflow
// displays and submits.
func FromRecord(rec api.CropRecord) domain.Listing {
	listing := domain.Listing{
		CropID:   rec.ID,
		OwnerID:  rec.Farm.User.ID,
		FullName: rec.Farm.User.Name,
		Phone:    strings.TrimPrefix(rec.Farm.User.MobileNumber, "+91"),
		Village:  rec.Farm.Village,
		Taluk:    rec.Farm.Taluk,
		District: rec.Farm.District,
		CropName: rec.CropName,
		Quantity: quantityDisplay(rec),
		Variety:  varietyOf(rec),
	}
	if listing.IsMaize() {
		if m := rec.MoisturePercent.String(); m != "" && m != "0" {
			listing.Moisture = m
		}
		listing.WillDry = willDryDisplay(rec.WillYouDryIt)
	}
	// Farm coordinates arrive GeoJSON-style: [lng, lat].
	if c := rec.Farm.Coordinates; c != nil && len(c.Coordinates) >= 2 {
		listing.Location = &domain.GeoPoint{Lat: c.Coordinates[1], Lng: c.Coordinates[0]}
	}
	return listing
}

func quantityDisplay(rec api.CropRecord) string {
	qty := rec.Quantity.String()
	switch {
	case qty != "" && rec.Measure != "":
		return qty + " " + rec.Measure
	case qty != "":
		return qty
	default:
		return rec.Measure
	}
}

func varietyOf(rec api.CropRecord) string {
	if rec.MaizeVariety != "" {
		return rec.MaizeVariety
	}
	return rec.OtherVarietyName
}

func willDryDisplay(v *bool) string {
	switch {
	case v == nil:
		return ""
	case *v:
		return "Yes"
	default:
		return "No"
	}
}
