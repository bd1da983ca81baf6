// Package misc holds build time information.
package misc

// Set by the linker: -X txt2epub/misc.version=... -X txt2epub/misc.gitHash=...
var (
	version = "dev"
	gitHash = "unknown"
)

const appName = "txt2epub"

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}
