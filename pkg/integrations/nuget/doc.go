// Package nuget implements a NuGet v3 feed client.
//
// The client reads the service index once, locates the flat container
// (PackageBaseAddress/3.0.0) and serves everything from it:
//
//	{base}/{id}/{version}/{id}.nuspec          dependency groups and metadata
//	{base}/{id}/{version}/{id}.{version}.nupkg package archive
//
// Ids and versions are lower-cased in URLs as the protocol requires.
// Service index and nuspec responses are cached; archives are not.
package nuget
