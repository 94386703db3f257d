// Package storage puts finished files somewhere: a local directory or an S3
// bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws/session"
)

var ErrInvalidTarget = errors.New("storage: invalid target")

// Destination stores whole objects under a name.
type Destination interface {
	Put(ctx context.Context, name string, data []byte) error
}

// FileDestination writes files into Dir. A file is written under a
// temporary name and renamed once complete.
type FileDestination struct {
	Dir string
}

func NewFileDestination(dir string) *FileDestination {
	if dir == "" {
		dir = "."
	}

	return &FileDestination{Dir: dir}
}

func (d *FileDestination) Put(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if name == "" || strings.ContainsRune(name, os.PathSeparator) {
		return fmt.Errorf("%w: file name %q", ErrInvalidTarget, name)
	}

	f, err := os.CreateTemp(d.Dir, "."+name+".tmp*")
	if err != nil {
		return err
	}
	tmpName := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpName)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpName)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, filepath.Join(d.Dir, name)); err != nil {
		os.Remove(tmpName)
		return err
	}

	return nil
}

// SplitS3URL splits "s3://bucket/key" into bucket and key.
func SplitS3URL(target string) (string, string, error) {
	rest := strings.TrimPrefix(target, "s3://")
	if rest == target {
		return "", "", fmt.Errorf("%w: %q is not an s3 URL", ErrInvalidTarget, target)
	}

	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" || strings.HasSuffix(key, "/") {
		return "", "", fmt.Errorf("%w: %q needs a bucket and a key", ErrInvalidTarget, target)
	}

	return bucket, key, nil
}

// Parse turns a target given on the command line into a destination and the
// name to store under. "s3://bucket/key" goes to S3 using the shared AWS
// configuration, anything else is a local path.
func Parse(target string) (Destination, string, error) {
	if strings.HasPrefix(target, "s3://") {
		bucket, key, err := SplitS3URL(target)
		if err != nil {
			return nil, "", err
		}

		sess, err := session.NewSessionWithOptions(session.Options{
			SharedConfigState: session.SharedConfigEnable,
		})
		if err != nil {
			return nil, "", err
		}

		return NewS3Destination(sess, bucket), key, nil
	}

	if target == "" {
		return nil, "", fmt.Errorf("%w: empty target", ErrInvalidTarget)
	}

	dir, name := filepath.Split(target)
	if name == "" {
		return nil, "", fmt.Errorf("%w: %q has no file name", ErrInvalidTarget, target)
	}

	return NewFileDestination(dir), name, nil
}
