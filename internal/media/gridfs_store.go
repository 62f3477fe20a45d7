package media

import (
	"bytes"
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

// GridFSStore implements ImageStore on a MongoDB GridFS bucket.
type GridFSStore struct {
	bucket *gridfs.Bucket
}

// NewGridFSStore opens the "images" bucket of the given database.
func NewGridFSStore(db *mongo.Database) (*GridFSStore, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName("images"))
	if err != nil {
		return nil, fmt.Errorf("failed to open gridfs bucket: %w", err)
	}
	return &GridFSStore{bucket: bucket}, nil
}

func (s *GridFSStore) Save(ctx context.Context, name, contentType string, data []byte) error {
	if err := s.bucket.SetWriteDeadline(deadline(ctx)); err != nil {
		return err
	}
	opts := options.GridFSUpload().SetMetadata(bson.D{{Key: "contentType", Value: contentType}})
	if _, err := s.bucket.UploadFromStream(name, bytes.NewReader(data), opts); err != nil {
		return fmt.Errorf("failed to upload image %s: %w", name, err)
	}
	return nil
}

func (s *GridFSStore) Open(ctx context.Context, name string) (*Image, error) {
	if err := s.bucket.SetReadDeadline(deadline(ctx)); err != nil {
		return nil, err
	}
	stream, err := s.bucket.OpenDownloadStreamByName(name)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}
	defer stream.Close()

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", name, err)
	}

	contentType := "application/octet-stream"
	if meta := stream.GetFile().Metadata; meta != nil {
		if ct, ok := meta.Lookup("contentType").StringValueOK(); ok {
			contentType = ct
		}
	}
	return &Image{Name: name, ContentType: contentType, Data: data}, nil
}

// Delete removes every revision stored under name. Missing files are not an error.
func (s *GridFSStore) Delete(ctx context.Context, name string) error {
	if err := s.bucket.SetReadDeadline(deadline(ctx)); err != nil {
		return err
	}
	cursor, err := s.bucket.Find(bson.M{"filename": name})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var files []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &files); err != nil {
		return err
	}

	if err := s.bucket.SetWriteDeadline(deadline(ctx)); err != nil {
		return err
	}
	for _, f := range files {
		if err := s.bucket.Delete(f.ID); err != nil && !errors.Is(err, gridfs.ErrFileNotFound) {
			return err
		}
	}
	return nil
}

// deadline maps the context deadline onto the bucket deadline; the zero time clears it.
func deadline(ctx context.Context) time.Time {
	d, _ := ctx.Deadline()
	return d
}
