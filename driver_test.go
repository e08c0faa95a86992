package khiopsdriver

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/sgouache/khiopsdriver-s3/mocks"
)

type driverTestSuite struct {
	suite.Suite
	client *mocks.Client
	d      *Driver
}

// newConnectedDriver builds a Driver that bypasses Connect's real client
// construction, wiring the mock client in directly, the same way the
// reference stack's own tests construct a FileSystem with a mocked client
// rather than exercising config.LoadDefaultConfig.
func (ts *driverTestSuite) newConnectedDriver() *Driver {
	d := &Driver{
		reg:       newRegistry(),
		client:    ts.client,
		connected: true,
		options:   Options{DefaultBucket: "bucket"},
	}
	return d
}

func (ts *driverTestSuite) SetupTest() {
	ts.client = mocks.NewClient(ts.T())
	ts.d = ts.newConnectedDriver()
}

func (ts *driverTestSuite) TestNotConnectedOperationsFail() {
	d := New()
	_, err := d.FOpen("s3://bucket/file.csv", ModeRead)
	ts.Require().ErrorIs(err, ErrNotConnected)
	ts.Equal(ErrNotConnected.Error(), d.GetLastError())
}

func (ts *driverTestSuite) TestConnectIsIdempotent() {
	d := New()
	ctx := context.Background()
	ts.False(d.IsConnected())
	err := d.Connect(ctx, Options{})
	ts.Require().NoError(err)
	ts.True(d.IsConnected())
	// second call is a no-op and must not error or reset state.
	err = d.Connect(ctx, Options{})
	ts.Require().NoError(err)
	ts.True(d.IsConnected())
}

func (ts *driverTestSuite) TestDisconnectAbortsLiveWriters() {
	ts.client.On("CreateMultipartUpload", matchContext, mock.AnythingOfType("*s3.CreateMultipartUploadInput")).
		Return(&s3.CreateMultipartUploadOutput{UploadId: aws.String("upload-1")}, nil).Once()
	h, err := ts.d.FOpen("s3://bucket/data/out.csv", ModeWrite)
	ts.Require().NoError(err)

	ts.client.On("AbortMultipartUpload", matchContext, mock.AnythingOfType("*s3.AbortMultipartUploadInput")).
		Return(&s3.AbortMultipartUploadOutput{}, nil).Once()

	err = ts.d.Disconnect()
	ts.Require().NoError(err)
	ts.False(ts.d.IsConnected())

	_, ok := ts.d.reg.findWriter(h)
	ts.False(ok)
}

func (ts *driverTestSuite) TestFileExistsLiteralKey() {
	ts.client.On("HeadObject", matchContext, mock.AnythingOfType("*s3.HeadObjectInput")).
		Return(&s3.HeadObjectOutput{ContentLength: aws.Int64(5)}, nil).Once()

	ok, err := ts.d.FileExists("s3://bucket/data/file.csv")
	ts.Require().NoError(err)
	ts.True(ok)
}

func (ts *driverTestSuite) TestFileExistsNotFoundReturnsFalseNoError() {
	ts.client.On("HeadObject", matchContext, mock.AnythingOfType("*s3.HeadObjectInput")).
		Return(nil, &types.NoSuchKey{}).Once()

	ok, err := ts.d.FileExists("s3://bucket/data/missing.csv")
	ts.Require().NoError(err)
	ts.False(ok)
}

func (ts *driverTestSuite) TestExistTrailingSlashIsVirtualDirectory() {
	ok, err := ts.d.Exist("s3://bucket/data/")
	ts.Require().NoError(err)
	ts.True(ok)
}

func (ts *driverTestSuite) TestGetFileSize() {
	ts.client.On("HeadObject", matchContext, mock.AnythingOfType("*s3.HeadObjectInput")).
		Return(&s3.HeadObjectOutput{ContentLength: aws.Int64(42)}, nil).Once()

	size := ts.d.GetFileSize("s3://bucket/data/file.csv")
	ts.Equal(int64(42), size)
}

func (ts *driverTestSuite) TestGetFileSizeFailureReturnsNegativeOne() {
	ts.client.On("HeadObject", matchContext, mock.AnythingOfType("*s3.HeadObjectInput")).
		Return(nil, &types.NoSuchKey{}).Once()

	size := ts.d.GetFileSize("s3://bucket/data/missing.csv")
	ts.Equal(int64(-1), size)
}

func (ts *driverTestSuite) TestFOpenReadAndFReadAndFClose() {
	content := "hello world!"
	ts.client.On("HeadObject", matchContext, mock.AnythingOfType("*s3.HeadObjectInput")).
		Return(&s3.HeadObjectOutput{ContentLength: aws.Int64(int64(len(content)))}, nil).Once()

	h, err := ts.d.FOpen("s3://bucket/data/file.csv", ModeRead)
	ts.Require().NoError(err)

	ts.client.On("GetObject", matchContext, mock.AnythingOfType("*s3.GetObjectInput")).
		Return(&s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(content))}, nil).Once()

	buf := make([]byte, len(content))
	n, err := ts.d.FRead(buf, h)
	ts.Require().NoError(err)
	ts.Equal(len(content), n)
	ts.Equal(content, string(buf))

	err = ts.d.FClose(h)
	ts.Require().NoError(err)

	_, err = ts.d.FRead(buf, h)
	ts.Require().Error(err, "reading a closed handle must fail")
}

func (ts *driverTestSuite) TestFWriteOnReaderHandleFails() {
	ts.client.On("HeadObject", matchContext, mock.AnythingOfType("*s3.HeadObjectInput")).
		Return(&s3.HeadObjectOutput{ContentLength: aws.Int64(5)}, nil).Once()
	h, err := ts.d.FOpen("s3://bucket/data/file.csv", ModeRead)
	ts.Require().NoError(err)

	_, err = ts.d.FWrite([]byte("x"), h)
	ts.Require().Error(err)
}

func (ts *driverTestSuite) TestRemove() {
	ts.client.On("DeleteObject", matchContext, mock.AnythingOfType("*s3.DeleteObjectInput")).
		Return(&s3.DeleteObjectOutput{}, nil).Once()

	ok, err := ts.d.Remove("s3://bucket/data/file.csv")
	ts.Require().NoError(err)
	ts.True(ok)
}

func (ts *driverTestSuite) TestCopyToLocal() {
	content := "hello world!"
	ts.client.On("HeadObject", matchContext, mock.AnythingOfType("*s3.HeadObjectInput")).
		Return(&s3.HeadObjectOutput{ContentLength: aws.Int64(int64(len(content)))}, nil).Once()
	ts.client.On("GetObject", matchContext, mock.AnythingOfType("*s3.GetObjectInput")).
		Return(&s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(content))}, nil).Once()

	tmp, err := os.CreateTemp("", "khiopsdriver-copy-*")
	ts.Require().NoError(err)
	localPath := tmp.Name()
	ts.Require().NoError(tmp.Close())
	defer os.Remove(localPath)

	err = ts.d.CopyToLocal("s3://bucket/data/file.csv", localPath)
	ts.Require().NoError(err)

	got, err := os.ReadFile(localPath)
	ts.Require().NoError(err)
	ts.Equal(content, string(got))
}

func (ts *driverTestSuite) TestCopyFromLocal() {
	tmp, err := os.CreateTemp("", "khiopsdriver-copy-src-*")
	ts.Require().NoError(err)
	_, err = tmp.WriteString("local contents")
	ts.Require().NoError(err)
	ts.Require().NoError(tmp.Close())
	defer os.Remove(tmp.Name())

	ts.client.On("PutObject", matchContext, mock.AnythingOfType("*s3.PutObjectInput")).
		Return(&s3.PutObjectOutput{}, nil).Once()

	err = ts.d.CopyFromLocal(tmp.Name(), "s3://bucket/data/uploaded.csv")
	ts.Require().NoError(err)
}

func TestDriverSuite(t *testing.T) {
	suite.Run(t, new(driverTestSuite))
}
