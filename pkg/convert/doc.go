// Package convert walks a NuGet dependency graph and writes one npm
// package directory per visited package version.
//
// # Walk
//
// [Converter.Generate] performs a single depth-first traversal from the
// root. For every package version it:
//
//  1. resolves the dependency groups and metadata from the [Registry]
//  2. selects the first group, in declaration order, whose framework is in
//     Options.AllowedFrameworks
//  3. drops dependencies rejected by Options.Filter
//  4. builds the package.json with [npm.Builder]
//  5. writes it to <PackageDir>/<id>@<version>/ and copies the library files
//     of the selected framework next to it
//  6. optionally writes the manifest alone to <PlaceholderDir>/<id>@<version>/
//  7. recurses into every kept dependency at its minimum version
//
// Nothing is written for a package until all of its registry data has been
// fetched.
//
// # Policies
//
// Package versions are visited at most once per run, keyed by lower-cased id
// and normalized version. An edge back to a package that is still being
// walked is a cycle; it is recorded and otherwise ignored. Dependencies
// without a minimum version stay in the manifest but are not walked. A
// failure to convert the root is returned; failures below the root are
// recorded in [Result.Failures] and the walk continues with siblings.
//
// [npm.Builder]: github.com/matzehuels/nugetnpm/pkg/npm.Builder
package convert
