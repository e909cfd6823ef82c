// Package receipts renders payment receipts and stores them through a Sink:
// a local directory or an S3-compatible bucket.
package receipts

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"text/tabwriter"

	"github.com/dmitrijs2005/gymkeeper/internal/client/models"
)

// Sink stores a rendered receipt and returns where it went.
type Sink interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

const brand = "GYMKEEPER FITNESS"

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// FileName is the receipt name for txn, safe to use as a file or object name.
func FileName(txn models.Transaction) string {
	return "receipt-" + unsafeName.ReplaceAllString(txn.ID, "_") + ".txt"
}

// Render formats a plain-text receipt for one ledger entry.
func Render(u models.User, txn models.Transaction) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s\nPAYMENT RECEIPT\n\n", brand)

	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Receipt No\t%s\n", txn.ID)
	fmt.Fprintf(w, "Date\t%s\n", txn.Date.Format("Jan 02, 2006 15:04 MST"))
	fmt.Fprintf(w, "Member\t%s (%s)\n", u.Name, u.ID)
	fmt.Fprintf(w, "Email\t%s\n", u.Email)
	fmt.Fprintf(w, "Description\t%s\n", txn.Description)
	fmt.Fprintf(w, "Amount\t%s\n", txn.Amount)
	fmt.Fprintf(w, "Method\t%s\n", txn.Method)
	fmt.Fprintf(w, "Status\t%s\n", txn.Status)
	_ = w.Flush()

	buf.WriteString("\nThank you for training with us.\n")
	return buf.Bytes()
}

// Save renders and stores the receipt for txn.
func Save(ctx context.Context, sink Sink, u models.User, txn models.Transaction) (string, error) {
	loc, err := sink.Save(ctx, FileName(txn), Render(u, txn))
	if err != nil {
		return "", fmt.Errorf("receipt %s: %w", txn.ID, err)
	}
	return loc, nil
}
