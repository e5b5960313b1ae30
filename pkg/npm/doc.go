// Package npm models the target side of a conversion: the package.json
// manifest, the translation of NuGet version ranges into npm range syntax,
// and the [Builder] that assembles a manifest from a package's identity,
// metadata and filtered dependency list.
//
// # Ranges
//
//	t := npm.RangeTranslator{}
//	r, _ := nuget.ParseVersionRange("[1.2.0,2.0.0)")
//	t.Translate(r) // ">=1.2.0 <2.0.0"
//
// # Manifests
//
// [Manifest.Marshal] writes the fields in a fixed order (name, displayName,
// version, dependencies, description, author, homepage, keywords) and always
// emits dependencies as an object and keywords as an array.
package npm
