package kvdb

const DocumentsBucket = "documents"

type DB interface {
	Create(bucket string, key string, value string) error
	Get(bucket string, key string) (string, error)
	Delete(bucket string, key string) error
	Count(bucket string) (int, error)
	Close() error
}
