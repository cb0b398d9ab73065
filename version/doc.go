// Package version reports the quorumbot build: the release set through
// -ldflags, completed from the VCS stamp Go embeds in the binary.
//
//	go build -ldflags "-X github.com/kbukum/quorumbot/version.Version=v1.2.0"
package version
