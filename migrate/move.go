package migrate

import (
	"bytes"
	"crypto/sha256"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

var errCollision = stderrors.New("destination collision")

// moveFile moves src to dst without overwriting. When the rename crosses a
// filesystem boundary the file is copied, verified, and only then removed
// from the source. It returns the number of bytes moved.
func (m *Manager) moveFile(src, dst string) (int64, error) {
	info, err := os.Lstat(src)
	if err != nil {
		return 0, err
	}
	if _, err := os.Lstat(dst); err == nil {
		return 0, errCollision
	} else if !os.IsNotExist(err) {
		return 0, err
	}

	err = m.rename(src, dst)
	if err == nil {
		return info.Size(), nil
	}
	if !stderrors.Is(err, unix.EXDEV) {
		return 0, err
	}

	m.logger.WithField("file", info.Name()).Debug("Cross-device move, copying")
	if err := copyFileVerified(src, dst, info.Mode().Perm()); err != nil {
		return 0, fmt.Errorf("copy across devices: %w", err)
	}
	if err := os.Remove(src); err != nil {
		return info.Size(), fmt.Errorf("copied but could not remove source: %w", err)
	}
	return info.Size(), nil
}

// copyFileVerified streams src to dst with size and SHA256 verification.
// dst is removed on any mismatch. An existing dst is never truncated.
func copyFileVerified(src, dst string, mode os.FileMode) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	srcSize := srcInfo.Size()

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, mode)
	if err != nil {
		if os.IsExist(err) {
			return errCollision
		}
		return err
	}
	defer func() {
		_ = out.Close()
	}()

	srcHasher := sha256.New()
	dstHasher := sha256.New()
	tee := io.TeeReader(in, srcHasher)
	multi := io.MultiWriter(out, dstHasher)

	written, err := io.Copy(multi, tee)
	if err != nil {
		_ = os.Remove(dst)
		return err
	}
	if err := out.Sync(); err != nil {
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return err
	}

	if written != srcSize {
		_ = os.Remove(dst)
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcSize, written)
	}

	// Re-read the destination rather than trusting the write path.
	onDisk, err := hashFile(dst)
	if err != nil {
		_ = os.Remove(dst)
		return err
	}
	if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) || !bytes.Equal(srcHasher.Sum(nil), onDisk) {
		_ = os.Remove(dst)
		return fmt.Errorf("copy hash mismatch: file corrupted during copy")
	}
	return nil
}

func hashFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}
