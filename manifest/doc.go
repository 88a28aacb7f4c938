// Package manifest resolves manifest files into ordered extension path lists.
//
// A manifest is a YAML document with a single top-level "extensions" entry
// listing extension module filenames:
//
//	extensions:
//	- std/libstd.gxm
//	- npp/libnpp.gxm
//
// Manifests are purely a resolution-time artifact: once the paths they name
// are handed to the loader, the manifest itself is not retained.
package manifest
