package publish

import (
	"fmt"
	"os"

	"wty/internal/errs"
)

// sourceRepoURL points at the project the dataset is built from.
const sourceRepoURL = "https://github.com/daxida/kty"

// WriteReadme renders the dataset README at path. The dataset host shows it
// as the repository front page, so it carries the release version, the exact
// source commit, and a link to the uploaded run log.
func WriteReadme(path, repoURL, commitSHA, version string) error {
	short := commitSHA
	if len(short) > 7 {
		short = short[:7]
	}
	content := fmt.Sprintf(`---
license: cc-by-sa-4.0
---
⚠️ **This dataset is automatically uploaded.**

For source code and issue tracking, visit the GitHub repo at [kty](%s)

version: %s

commit: [%s](%s/commit/%s)

logs: [link](%s/blob/main/log.txt)
`, sourceRepoURL, version, short, sourceRepoURL, commitSHA, repoURL)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return errs.Wrap(errs.ErrConfiguration, "publish", "readme", "write README", err)
	}
	return nil
}
