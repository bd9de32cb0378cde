package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NewMongoClient connects and pings MongoDB.
func NewMongoClient(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// GridFSImageStore stores images in the "images" GridFS bucket.
type GridFSImageStore struct {
	bucket *gridfs.Bucket
}

func NewGridFSImageStore(db *mongo.Database) (*GridFSImageStore, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName("images"))
	if err != nil {
		return nil, fmt.Errorf("failed to open gridfs bucket: %w", err)
	}
	return &GridFSImageStore{bucket: bucket}, nil
}

func (s *GridFSImageStore) Upload(ctx context.Context, fileName, contentType string, r io.Reader) (string, error) {
	if deadline, ok := ctx.Deadline(); ok {
		if err := s.bucket.SetWriteDeadline(deadline); err != nil {
			return "", err
		}
	}

	opts := options.GridFSUpload().SetMetadata(bson.D{{Key: "contentType", Value: contentType}})
	id, err := s.bucket.UploadFromStream(fileName, r, opts)
	if err != nil {
		return "", fmt.Errorf("failed to upload image %s: %w", fileName, err)
	}
	return id.Hex(), nil
}

func (s *GridFSImageStore) Open(ctx context.Context, fileID string) (io.ReadCloser, *ImageInfo, error) {
	id, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return nil, nil, ErrImageNotFound
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := s.bucket.SetReadDeadline(deadline); err != nil {
			return nil, nil, err
		}
	}

	stream, err := s.bucket.OpenDownloadStream(id)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return nil, nil, ErrImageNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open image %s: %w", fileID, err)
	}

	file := stream.GetFile()
	info := &ImageInfo{FileName: file.Name, Size: file.Length, ContentType: "application/octet-stream"}
	if file.Metadata != nil {
		if ct, ok := file.Metadata.Lookup("contentType").StringValueOK(); ok && ct != "" {
			info.ContentType = ct
		}
	}
	return stream, info, nil
}

func (s *GridFSImageStore) Delete(ctx context.Context, fileID string) error {
	id, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return ErrImageNotFound
	}
	err = s.bucket.DeleteContext(ctx, id)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return ErrImageNotFound
	}
	return err
}
