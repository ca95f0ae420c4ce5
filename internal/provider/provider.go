// Package provider defines the interface for anime content providers
// and their implementations.
package provider

import (
	"sakura/internal/media"
)

// Provider is the interface that content providers must implement.
type Provider interface {
	// Search returns matching results for a keyword.
	Search(keyword string) ([]media.SearchResult, error)

	// Detail returns detailed metadata for a series.
	Detail(vid string) (*media.Detail, error)

	// Episodes returns the line/episode structure for a series.
	Episodes(vid string) (*media.EpisodeList, error)
}
