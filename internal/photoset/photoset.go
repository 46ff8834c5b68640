// Package photoset enforces the ordered, bounded collection of captured
// evidence stills.
package photoset

import "cropproof/internal/domain"

// MaxPhotos caps how many stills one submission may carry.
const MaxPhotos = 3

// Set is an immutable-style photo sequence; operations return the new
// sequence. Indices are positions, recomputed on removal, not stable ids.
type Set struct {
	photos []domain.CapturedPhoto
}

// Of builds a set from photos, truncating beyond MaxPhotos.
func Of(photos ...domain.CapturedPhoto) Set {
	if len(photos) > MaxPhotos {
		photos = photos[:MaxPhotos]
	}
	s := Set{photos: append([]domain.CapturedPhoto(nil), photos...)}
	s.reindex()
	return s
}

// Len returns the number of captured photos.
func (s Set) Len() int { return len(s.photos) }

// Full reports whether the capture cap is reached.
func (s Set) Full() bool { return len(s.photos) >= MaxPhotos }

// Photos returns a copy of the sequence in capture order.
func (s Set) Photos() []domain.CapturedPhoto {
	return append([]domain.CapturedPhoto(nil), s.photos...)
}

// Last returns the most recent photo.
func (s Set) Last() (domain.CapturedPhoto, bool) {
	if len(s.photos) == 0 {
		return domain.CapturedPhoto{}, false
	}
	return s.photos[len(s.photos)-1], true
}

// Append adds a photo at the end. Appending to a full set is a no-op: the
// UI disables the action at the cap, but the set enforces it regardless.
func (s Set) Append(photo domain.CapturedPhoto) Set {
	if s.Full() {
		return s
	}
	out := Set{photos: append(s.Photos(), photo)}
	out.reindex()
	return out
}

// RemoveLast drops the most recent photo ("retake"). No-op on empty.
func (s Set) RemoveLast() Set {
	if len(s.photos) == 0 {
		return s
	}
	out := Set{photos: s.Photos()[:len(s.photos)-1]}
	out.reindex()
	return out
}

// RemoveAt drops the photo at index, preserving the relative order of the
// rest and recomputing indices. Out-of-range indices are a no-op.
func (s Set) RemoveAt(index int) Set {
	if index < 0 || index >= len(s.photos) {
		return s
	}
	photos := s.Photos()
	out := Set{photos: append(photos[:index], photos[index+1:]...)}
	out.reindex()
	return out
}

func (s *Set) reindex() {
	for i := range s.photos {
		s.photos[i].Index = i
	}
}
