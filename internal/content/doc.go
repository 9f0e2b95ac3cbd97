// Package content defines the identity of an asset document (Key), the decode
// strategies applied to raw payloads, and the error taxonomy shared by every
// tier. Keys serialize to the origin bucket layout:
//
//	versions/<version>/<path>.json
//	versions/<version>/<path>/<language>.json
//	<static name>
//
// Packages resolver/server depend on this package; it imports nothing internal.
package content
