package convert

import (
	"context"

	"github.com/matzehuels/nugetnpm/pkg/nuget"
)

// DependencyResolver returns the dependency groups of a package version.
type DependencyResolver interface {
	GetDependencyInfo(ctx context.Context, id nuget.Identity) (*nuget.DependencyInfo, error)
}

// MetadataResolver returns descriptive package metadata.
type MetadataResolver interface {
	GetMetadata(ctx context.Context, id nuget.Identity) (nuget.Metadata, error)
}

// ContentFetcher downloads a package archive.
type ContentFetcher interface {
	FetchArchive(ctx context.Context, id nuget.Identity) (nuget.PackageReader, error)
}

// Registry is everything the converter needs from a package feed.
type Registry interface {
	DependencyResolver
	MetadataResolver
	ContentFetcher
}
