package auth

import (
	"errors"
	"os"
	"syscall"
	"time"
)

// ErrLockTimeout indicates a timeout acquiring the token file lock.
var ErrLockTimeout = errors.New("token file lock timeout")

// fileLock provides advisory flock(2) locking so concurrent processes
// do not interleave writes to the token file.
type fileLock struct {
	path string
	file *os.File
}

// newFileLock creates a lock guarding path. The lock file is path + ".lock".
func newFileLock(path string) *fileLock {
	return &fileLock{path: path + ".lock"}
}

// lock acquires an exclusive lock, polling until the timeout elapses.
func (l *fileLock) lock(timeout time.Duration) error {
	var err error
	l.file, err = os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return err
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		err = syscall.Flock(int(l.file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
		if err == nil {
			return nil
		}
		time.Sleep(10 * time.Millisecond)
	}

	l.file.Close()
	l.file = nil
	return ErrLockTimeout
}

// unlock releases the lock.
func (l *fileLock) unlock() error {
	if l.file == nil {
		return nil
	}
	syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
	l.file.Close()
	os.Remove(l.path)
	l.file = nil
	return nil
}
