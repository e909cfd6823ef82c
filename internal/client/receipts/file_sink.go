package receipts

import (
	"context"

	"github.com/dmitrijs2005/gymkeeper/internal/filex"
)

// FileSink writes receipts into a local directory.
type FileSink struct {
	dir string
}

func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

func (s *FileSink) Save(_ context.Context, name string, data []byte) (string, error) {
	return filex.WriteFile(s.dir, name, data)
}
