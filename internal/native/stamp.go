package native

import (
	"fmt"

	git "github.com/go-git/go-git/v6"
)

// StampHeader returns a provenance comment for the top of a generated
// file. When dir is inside a git work tree the HEAD short hash is
// included; outside one the header is hash-less rather than an error.
func StampHeader(dir string) string {
	const base = "# generated by nativeconf"

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return base
	}
	head, err := repo.Head()
	if err != nil {
		return base
	}

	return fmt.Sprintf("%s (%s)", base, head.Hash().String()[:8])
}
