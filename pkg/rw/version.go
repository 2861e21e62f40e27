package rw

// Known RenderWare releases by unpacked version number. Resolution is
// informational only and never gates decoding.
var versionNames = map[uint32]string{
	0x31000: "RenderWare 3.1.0.0 (III on PS2)",
	0x32000: "RenderWare 3.2.0.0 (III on PC)",
	0x33002: "RenderWare 3.3.0.2 (III on PC, VC on PS2)",
	0x34003: "RenderWare 3.4.0.3 (VC on PC)",
	0x34005: "RenderWare 3.4.0.5 (III on PS2, VC on Android/PC)",
	0x35000: "RenderWare 3.5.0.0 (III/VC on Xbox)",
	0x36003: "RenderWare 3.6.0.3 (SA)",
}

// UnpackVersion converts the on-disk packed version encoding to the
// canonical version number. Values with a zero high half are already
// unpacked ("old-style") and are returned unchanged, which makes the
// function idempotent.
func UnpackVersion(version uint32) uint32 {
	if version&0xFFFF0000 != 0 {
		return ((version>>14)&0x3FF00 + 0x30000) | ((version >> 16) & 0x3F)
	}
	return version
}

// UnpackBuild extracts the build number from a packed version. Old-style
// values carry no build information.
func UnpackBuild(version uint32) uint32 {
	if version&0xFFFF0000 != 0 {
		return version & 0xFFFF
	}
	return 0
}

// PackVersion re-encodes an unpacked version number and build into the
// compact on-disk form. Packing then unpacking round-trips the version;
// the reverse direction is lossy for malformed inputs.
func PackVersion(version, build uint32) uint32 {
	return ((version-0x30000)&0x3FF00)<<14 | (version&0x3F)<<16 | build&0xFFFF
}

// VersionName returns the human-readable release string for an unpacked
// version number, or "" when the version is not a known release.
func VersionName(version uint32) string {
	return versionNames[version]
}
