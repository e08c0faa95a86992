package khiopsdriver

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Mode selects how FOpen establishes a stream.
type Mode int

const (
	ModeRead Mode = iota
	ModeWrite
	ModeAppend
)

const (
	driverName = "s3"
	driverVersion = "1.0.0"
	driverScheme  = "s3"

	preferredBufferSize = 4 * 1024 * 1024
	diskFreeSpaceConst  = 1 << 40 // a fixed, large constant: the store has no meaningful notion of free space.
	copyChunkSize       = 10 * 1024 * 1024
)

// Driver is the process-wide facade: URI parsing and default-bucket
// fallback, connect/disconnect lifecycle, error-string capture, and
// whole-file copy built on top of the Reader and the Client. Nothing here
// is a package-level global: a process may construct more than one Driver,
// though in practice the host sits exactly one behind its C-ABI shim.
type Driver struct {
	mu        sync.Mutex
	connected bool
	options   Options
	client    Client
	lastErr   error

	reg *registry
}

// New returns a Driver that has not yet been connected.
func New() *Driver {
	return &Driver{reg: newRegistry()}
}

func (d *Driver) GetDriverName() string { return driverName }
func (d *Driver) GetVersion() string    { return driverVersion }
func (d *Driver) GetScheme() string     { return driverScheme }
func (d *Driver) IsReadOnly() bool      { return false }
func (d *Driver) GetSystemPreferredBufferSize() int64 { return preferredBufferSize }
func (d *Driver) DiskFreeSpace(string) int64 { return diskFreeSpaceConst }

func (d *Driver) IsConnected() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.connected
}

// GetLastError returns the last recorded failure message, or "" if none is
// set. It never clears the stored error; only a successful Connect does.
func (d *Driver) GetLastError() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.lastErr == nil {
		return ""
	}
	return d.lastErr.Error()
}

func (d *Driver) setLastError(err error) error {
	d.mu.Lock()
	d.lastErr = err
	d.mu.Unlock()
	return err
}

// Connect is idempotent: calling it while already connected is a no-op.
func (d *Driver) Connect(ctx context.Context, opts Options) error {
	d.mu.Lock()
	if d.connected {
		d.mu.Unlock()
		return nil
	}
	d.mu.Unlock()

	client, err := getClient(ctx, opts)
	if err != nil {
		return d.setLastError(newErr(KindInternal, "failed to construct s3 client", err))
	}

	d.mu.Lock()
	d.options = opts
	d.client = client
	d.connected = true
	d.lastErr = nil
	d.mu.Unlock()
	return nil
}

// Disconnect is idempotent: it aborts every live Writer's multipart upload,
// drops every live Reader, and transitions to disconnected regardless of
// whether the abort pass fully succeeded.
func (d *Driver) Disconnect() error {
	d.mu.Lock()
	if !d.connected {
		d.mu.Unlock()
		return nil
	}
	d.mu.Unlock()

	err := d.reg.abortAll()

	d.mu.Lock()
	d.client = nil
	d.connected = false
	d.mu.Unlock()

	if err != nil {
		return d.setLastError(err)
	}
	return nil
}

func (d *Driver) checkConnected() (Client, string, context.Context, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.connected {
		return nil, "", nil, ErrNotConnected
	}
	return d.client, d.options.DefaultBucket, context.Background(), nil
}

func (d *Driver) parse(path string) (bucket, key string, err error) {
	_, defaultBucket, _, err := d.checkConnected()
	if err != nil {
		return "", "", err
	}
	return ParseURI(path, defaultBucket)
}

// Exist implements the "exist" operation: a trailing slash is a (virtual)
// directory and always exists; otherwise it defers to FileExists.
func (d *Driver) Exist(path string) (bool, error) {
	if strings.HasSuffix(path, "/") {
		if _, _, _, err := d.checkConnected(); err != nil {
			return false, d.setLastError(err)
		}
		return true, nil
	}
	return d.FileExists(path)
}

// FileExists performs a HeadObject for a literal key, or a filtered list
// for a glob, returning true iff at least one object matches.
func (d *Driver) FileExists(path string) (bool, error) {
	client, defaultBucket, ctx, err := d.checkConnected()
	if err != nil {
		return false, d.setLastError(err)
	}
	bucket, key, err := ParseURI(path, defaultBucket)
	if err != nil {
		return false, d.setLastError(err)
	}

	if _, isGlob := IsGlob(key); !isGlob {
		_, err := client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)})
		if err != nil {
			if classifyStoreErr(err) == KindNotFound {
				return false, nil
			}
			return false, d.setLastError(wrapStoreErr("head object", err))
		}
		return true, nil
	}

	matches, err := listMatching(ctx, client, bucket, key)
	if err != nil {
		return false, d.setLastError(err)
	}
	return len(matches) > 0, nil
}

// DirExists always returns true: directories are a virtual notion the host
// contract treats as a no-op.
func (d *Driver) DirExists(path string) (bool, error) {
	if _, _, _, err := d.checkConnected(); err != nil {
		return false, d.setLastError(err)
	}
	return true, nil
}

// Mkdir and Rmdir are no-ops, per the host contract.
func (d *Driver) Mkdir(string) error { return nil }
func (d *Driver) Rmdir(string) error { return nil }

// GetFileSize resolves path and returns its logical size: the last entry of
// the cumulative-size index after header compensation, or -1 on failure.
func (d *Driver) GetFileSize(path string) int64 {
	client, defaultBucket, ctx, err := d.checkConnected()
	if err != nil {
		d.setLastError(err)
		return -1
	}
	bucket, key, err := ParseURI(path, defaultBucket)
	if err != nil {
		d.setLastError(err)
		return -1
	}
	r, err := resolveParts(ctx, client, bucket, key)
	if err != nil {
		d.setLastError(err)
		return -1
	}
	return r.totalSize
}

// FOpen opens path in the given mode and registers the resulting stream,
// returning its handle.
func (d *Driver) FOpen(path string, mode Mode) (Handle, error) {
	client, defaultBucket, ctx, err := d.checkConnected()
	if err != nil {
		return 0, d.setLastError(err)
	}
	bucket, key, err := ParseURI(path, defaultBucket)
	if err != nil {
		return 0, d.setLastError(err)
	}

	switch mode {
	case ModeRead:
		r, err := OpenReader(ctx, client, bucket, key)
		if err != nil {
			return 0, d.setLastError(err)
		}
		return d.reg.insertReader(r), nil
	case ModeWrite:
		w, err := OpenWriter(ctx, client, bucket, key)
		if err != nil {
			return 0, d.setLastError(err)
		}
		return d.reg.insertWriter(w), nil
	case ModeAppend:
		w, err := OpenAppendWriter(ctx, client, bucket, key)
		if err != nil {
			return 0, d.setLastError(err)
		}
		return d.reg.insertWriter(w), nil
	default:
		return 0, d.setLastError(newErr(KindInvalidParameter, "unknown open mode", nil))
	}
}

// FClose closes the stream behind h, uploading/completing a Writer's final
// part as needed, and removes it from the registry.
func (d *Driver) FClose(h Handle) error {
	if r, ok := d.reg.findReader(h); ok {
		d.reg.removeReader(h)
		return r.Close()
	}
	if w, ok := d.reg.findWriter(h); ok {
		if err := w.Close(); err != nil {
			return d.setLastError(err)
		}
		d.reg.removeWriter(h)
		return nil
	}
	return d.setLastError(newErr(KindInvalidParameter, "unknown handle", nil))
}

// FSeek repositions a Reader's cursor. Writers are not seekable.
func (d *Driver) FSeek(h Handle, offset int64, whence int) (int64, error) {
	r, ok := d.reg.findReader(h)
	if !ok {
		return -1, d.setLastError(newErr(KindInvalidParameter, "handle is not a readable stream", nil))
	}
	n, err := r.Seek(offset, whence)
	if err != nil {
		return -1, d.setLastError(newErr(KindInternal, "seek failed", err))
	}
	return n, nil
}

// FRead fills dst from the Reader behind h, returning the number of bytes
// read or -1 on failure.
func (d *Driver) FRead(dst []byte, h Handle) (int, error) {
	r, ok := d.reg.findReader(h)
	if !ok {
		return -1, d.setLastError(newErr(KindInvalidParameter, "handle is not a readable stream", nil))
	}
	n, err := r.Read(dst)
	if err != nil && err != io.EOF {
		return -1, d.setLastError(newErr(KindInternal, "read failed", err))
	}
	return n, nil
}

// FWrite appends src to the Writer behind h, returning the number of bytes
// written or -1 on failure.
func (d *Driver) FWrite(src []byte, h Handle) (int, error) {
	w, ok := d.reg.findWriter(h)
	if !ok {
		return -1, d.setLastError(newErr(KindInvalidParameter, "handle is not a writable stream", nil))
	}
	n, err := w.Write(src)
	if err != nil {
		return -1, d.setLastError(err)
	}
	return n, nil
}

// FFlush is a no-op: callers cannot force a short part to be uploaded early.
func (d *Driver) FFlush(h Handle) error {
	if _, ok := d.reg.findReader(h); ok {
		return nil
	}
	if _, ok := d.reg.findWriter(h); ok {
		return nil
	}
	return d.setLastError(newErr(KindInvalidParameter, "unknown handle", nil))
}

// Remove deletes a single literal object. It does not expand globs.
func (d *Driver) Remove(path string) (bool, error) {
	client, defaultBucket, ctx, err := d.checkConnected()
	if err != nil {
		return false, d.setLastError(err)
	}
	bucket, key, err := ParseURI(path, defaultBucket)
	if err != nil {
		return false, d.setLastError(err)
	}
	if _, err := client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)}); err != nil {
		return false, d.setLastError(wrapStoreErr("delete object", err))
	}
	return true, nil
}

// CopyToLocal constructs an unregistered Reader, downloads each of its
// parts sequentially in bounded chunks, and streams them into a local file.
// Any failure removes the partial local file.
func (d *Driver) CopyToLocal(remote, local string) error {
	client, defaultBucket, ctx, err := d.checkConnected()
	if err != nil {
		return d.setLastError(err)
	}
	bucket, key, err := ParseURI(remote, defaultBucket)
	if err != nil {
		return d.setLastError(err)
	}

	r, err := OpenReader(ctx, client, bucket, key)
	if err != nil {
		return d.setLastError(err)
	}

	f, err := os.Create(local)
	if err != nil {
		return d.setLastError(newErr(KindInternal, "failed to create local file", err))
	}

	buf := make([]byte, copyChunkSize)
	for {
		n, readErr := r.Read(buf)
		if n > 0 {
			if _, err := f.Write(buf[:n]); err != nil {
				f.Close()
				os.Remove(local)
				return d.setLastError(newErr(KindInternal, "failed writing local file", err))
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			f.Close()
			os.Remove(local)
			return d.setLastError(readErr)
		}
	}

	if err := f.Close(); err != nil {
		os.Remove(local)
		return d.setLastError(newErr(KindInternal, "failed closing local file", err))
	}
	return nil
}

// CopyFromLocal issues a single PutObject with the local file as the body
// stream. There is no multipart fallback for large files; see design notes
// for callers that need to move more than fits in one PutObject.
func (d *Driver) CopyFromLocal(local, remote string) error {
	client, defaultBucket, ctx, err := d.checkConnected()
	if err != nil {
		return d.setLastError(err)
	}
	bucket, key, err := ParseURI(remote, defaultBucket)
	if err != nil {
		return d.setLastError(err)
	}

	f, err := os.Open(local)
	if err != nil {
		return d.setLastError(newErr(KindInternal, "failed to open local file", err))
	}
	defer f.Close()

	if _, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   f,
	}); err != nil {
		return d.setLastError(wrapStoreErr("put object", err))
	}
	return nil
}
