// Package notify delivers match notices. Delivery is best effort and
// fire-and-forget: the match flow neither retries nor rolls back on a
// failed notice.
package notify

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oggyb/matchmaker/internal/db"
)

// Notifier sends a match notice to a recipient about the user they
// matched with.
type Notifier interface {
	MatchFound(recipientEmail string, matchedUser *db.User) error
}

// FileNotifier drops each notice as a text file in a directory, one
// file per recipient per notice.
type FileNotifier struct {
	dir string
}

// NewFileNotifier creates a notifier writing into dir.
func NewFileNotifier(dir string) *FileNotifier {
	return &FileNotifier{dir: dir}
}

// MatchFound writes the notice file. The filename carries the
// recipient and a timestamp so repeated notices never overwrite.
func (n *FileNotifier) MatchFound(recipientEmail string, matchedUser *db.User) error {
	if err := os.MkdirAll(n.dir, 0o755); err != nil {
		return err
	}

	name := fmt.Sprintf(
		"Email_to_%s_%s.txt",
		strings.ReplaceAll(recipientEmail, ".", "_"),
		time.Now().Format("2006-01-02_15-04-05.000"),
	)

	body := fmt.Sprintf(
		"Subject: You matched with %s:\n\n"+
			"You matched with %s. Email address to contact person is %s",
		matchedUser.FirstName, matchedUser.FirstName, matchedUser.Email,
	)

	return os.WriteFile(filepath.Join(n.dir, name), []byte(body), 0o644)
}
