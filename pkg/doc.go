// Package pkg holds the libraries behind nugetnpm, which converts a NuGet
// package and its dependency tree into npm package directories.
//
// # Layout
//
//   - [nuget]: identities, versions, ranges, frameworks and package archives
//   - [npm]: package.json manifests and version range translation
//   - [names], [filter], [rules]: id to npm name mapping and dependency exclusion
//   - [convert]: the dependency walk and output store
//   - [integrations]: the HTTP client and the NuGet v3 feed client
//   - [cache]: registry response caches (file, Redis, none)
//   - [render]: Graphviz output of a conversion
//   - [errors], [observability], [buildinfo]: shared infrastructure
//
// # Data flow
//
//	NuGet feed (service index, nuspec, nupkg)
//	         ↓
//	integrations/nuget.Client ── cache.Cache
//	         ↓
//	convert.Converter.Generate
//	         ↓
//	<out>/<id>@<version>/package.json + lib/<tfm>/...
package pkg
