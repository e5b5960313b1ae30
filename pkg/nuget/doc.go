// Package nuget models the source side of a conversion: NuGet package
// identities, versions, version ranges, target frameworks, dependency groups
// and package archives.
//
// # Versions and ranges
//
// [ParseVersion] accepts SemVer 2.0 versions plus NuGet's legacy fourth
// component. [ParseVersionRange] accepts the interval notation used in
// nuspec files:
//
//	r, _ := nuget.ParseVersionRange("[1.2.0,2.0.0)")
//	r.HasLowerBound() // true
//	r.Min.String()    // "1.2.0"
//
// # Frameworks
//
// [ParseFramework] canonicalizes long and short target framework monikers so
// ".NETStandard2.0" and "netstandard2.0" compare equal. Dependency groups are
// chosen with [DependencyInfo.SelectGroup], which walks groups in declaration
// order and returns the first one whose framework is allowed.
//
// # Archives
//
// [OpenPackage] reads a .nupkg and exposes its lib/ folder grouped by
// framework through the [PackageReader] interface.
package nuget
