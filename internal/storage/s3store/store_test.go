package s3store

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubAWS(t *testing.T) *string {
	t.Helper()

	origLoad, origNewS3, origNewPre := loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient
	origPut, origGet, origDel, origUpload := presignPutObject, presignGetObject, deleteObject, uploadPresigned
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignPutObject = origPut
		presignGetObject = origGet
		deleteObject = origDel
		uploadPresigned = origUpload
	})

	var endpoint string
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var opts s3.Options
		for _, fn := range optFns {
			fn(&opts)
		}
		require.NotNil(t, opts.BaseEndpoint)
		endpoint = *opts.BaseEndpoint
		assert.True(t, opts.UsePathStyle)
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return &s3.PresignClient{}
	}
	return &endpoint
}

func newStore(t *testing.T) (*Store, *string) {
	endpoint := stubAWS(t)
	s, err := New(context.Background(), Config{
		Region:       "us-east-1",
		User:         "minioadmin",
		Password:     "minioadmin",
		Bucket:       "outfits",
		BaseEndpoint: "http://127.0.0.1:9000",
	})
	require.NoError(t, err)
	return s, endpoint
}

func TestNew_AppliesConfig(t *testing.T) {
	_, endpoint := newStore(t)
	assert.Equal(t, "http://127.0.0.1:9000", *endpoint)
}

func TestNew_LoadError(t *testing.T) {
	stubAWS(t)
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}

	_, err := New(context.Background(), Config{Region: "us-east-1"})
	require.EqualError(t, err, "load-fail")
}

func TestStore_PutUploadsToPresignedURL(t *testing.T) {
	s, _ := newStore(t)

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		assert.Equal(t, "outfits", *in.Bucket)
		assert.Equal(t, "users/u/outfits/o.jpg", *in.Key)
		assert.Equal(t, "image/jpeg", *in.ContentType)
		return &v4.PresignedHTTPRequest{URL: "http://minio/presigned-put"}, nil
	}

	var gotURL, gotCT string
	var gotData []byte
	uploadPresigned = func(ctx context.Context, url string, data []byte, contentType string) error {
		gotURL, gotData, gotCT = url, data, contentType
		return nil
	}

	require.NoError(t, s.Put(context.Background(), "users/u/outfits/o.jpg", []byte("img"), "image/jpeg"))
	assert.Equal(t, "http://minio/presigned-put", gotURL)
	assert.Equal(t, []byte("img"), gotData)
	assert.Equal(t, "image/jpeg", gotCT)
}

func TestStore_PutPresignError(t *testing.T) {
	s, _ := newStore(t)

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("presign-fail")
	}
	uploadPresigned = func(ctx context.Context, url string, data []byte, contentType string) error {
		t.Fatal("upload must not run when presigning fails")
		return nil
	}

	err := s.Put(context.Background(), "k", []byte("x"), "image/jpeg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "presign-fail")
}

func TestStore_URL(t *testing.T) {
	s, _ := newStore(t)

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		assert.Equal(t, "k", *in.Key)
		var po s3.PresignOptions
		for _, fn := range optFns {
			fn(&po)
		}
		assert.Equal(t, presignTTL, po.Expires)
		return &v4.PresignedHTTPRequest{URL: "http://minio/get?sig=1"}, nil
	}

	u, err := s.URL(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "http://minio/get?sig=1", u)
}

func TestStore_Delete(t *testing.T) {
	s, _ := newStore(t)

	var deleted string
	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput) error {
		deleted = *in.Key
		return nil
	}
	require.NoError(t, s.Delete(context.Background(), "users/u/outfits/o.jpg"))
	assert.Equal(t, "users/u/outfits/o.jpg", deleted)

	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput) error {
		return errors.New("denied")
	}
	require.ErrorContains(t, s.Delete(context.Background(), "k"), "denied")
}
