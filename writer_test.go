package khiopsdriver

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/sgouache/khiopsdriver-s3/mocks"
)

type writerTestSuite struct {
	suite.Suite
	client *mocks.Client
	ctx    context.Context
	bucket string
	key    string
}

func (ts *writerTestSuite) SetupTest() {
	ts.client = mocks.NewClient(ts.T())
	ts.ctx = context.Background()
	ts.bucket = "bucket"
	ts.key = "data/out.csv"
}

func (ts *writerTestSuite) newWriter() *Writer {
	ts.client.On("CreateMultipartUpload", matchContext, mock.AnythingOfType("*s3.CreateMultipartUploadInput")).
		Return(&s3.CreateMultipartUploadOutput{UploadId: aws.String("upload-1")}, nil).Once()
	w, err := OpenWriter(ts.ctx, ts.client, ts.bucket, ts.key)
	ts.Require().NoError(err)
	return w
}

func (ts *writerTestSuite) TestWriteBuffersBelowMinimum() {
	w := ts.newWriter()
	n, err := w.Write([]byte("small write"))
	ts.Require().NoError(err)
	ts.Equal(11, n)
	ts.Equal([]byte("small write"), w.buffer)
	// no UploadPart expectation was registered; the mock's AssertExpectations
	// on cleanup will fail the test if one was made.
}

func (ts *writerTestSuite) TestWriteFlushesAtMinimum() {
	w := ts.newWriter()
	ts.client.On("UploadPart", matchContext, mock.MatchedBy(func(in *s3.UploadPartInput) bool {
		return aws.ToInt32(in.PartNumber) == 1
	})).Return(&s3.UploadPartOutput{ETag: aws.String("etag-1")}, nil).Once()

	body := make([]byte, buffMin)
	n, err := w.Write(body)
	ts.Require().NoError(err)
	ts.Equal(buffMin, n)
	ts.Len(w.buffer, 0)
	ts.Len(w.completedParts, 1)
	ts.Equal(int32(2), w.nextPartNumber)
}

func (ts *writerTestSuite) TestCloseFlushesResidualRegardlessOfSize() {
	w := ts.newWriter()
	ts.client.On("UploadPart", matchContext, mock.AnythingOfType("*s3.UploadPartInput")).
		Return(&s3.UploadPartOutput{ETag: aws.String("etag-1")}, nil).Once()
	ts.client.On("CompleteMultipartUpload", matchContext, mock.AnythingOfType("*s3.CompleteMultipartUploadInput")).
		Return(&s3.CompleteMultipartUploadOutput{}, nil).Once()

	_, err := w.Write([]byte("tail"))
	ts.Require().NoError(err)

	err = w.Close()
	ts.Require().NoError(err)

	// closing twice is a no-op.
	err = w.Close()
	ts.Require().NoError(err)
}

func (ts *writerTestSuite) TestAbort() {
	w := ts.newWriter()
	ts.client.On("AbortMultipartUpload", matchContext, mock.AnythingOfType("*s3.AbortMultipartUploadInput")).
		Return(&s3.AbortMultipartUploadOutput{}, nil).Once()

	err := w.Abort()
	ts.Require().NoError(err)

	// aborting twice is a no-op.
	err = w.Abort()
	ts.Require().NoError(err)
}

func (ts *writerTestSuite) TestOpenWriterPropagatesStoreError() {
	someErr := errors.New("network blip")
	ts.client.On("CreateMultipartUpload", matchContext, mock.AnythingOfType("*s3.CreateMultipartUploadInput")).
		Return(nil, someErr).Once()

	_, err := OpenWriter(ts.ctx, ts.client, ts.bucket, ts.key)
	ts.Require().Error(err)
	ts.Require().ErrorIs(err, someErr)
}

func TestWriterSuite(t *testing.T) {
	suite.Run(t, new(writerTestSuite))
}
