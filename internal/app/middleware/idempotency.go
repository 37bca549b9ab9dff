package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"time"

	"stayfinder/internal/app/commands"
)

// IdempotentCommand marks commands whose outcome must be replayed when the
// same request key is dispatched again.
type IdempotentCommand interface {
	commands.Command
	IdempotencyKey() string
	// ResultPrototype returns a fresh value the stored payload decodes into.
	ResultPrototype() any
}

// IdempotencyRecord is the stored outcome of one keyed command: an encoded
// result payload, or a classified failure.
type IdempotencyRecord struct {
	Key         string
	Payload     []byte
	FailureCode string
	FailureMsg  string
	OccurredAt  time.Time
}

func (r IdempotencyRecord) failed() bool {
	return r.FailureCode != "" || r.FailureMsg != ""
}

type IdempotencyStore interface {
	Get(ctx context.Context, key string) (IdempotencyRecord, bool, error)
	Save(ctx context.Context, rec IdempotencyRecord) error
}

type ResultCodec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, out any) error
}

type JSONResultCodec struct{}

func (JSONResultCodec) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONResultCodec) Decode(data []byte, out any) error {
	return json.Unmarshal(data, out)
}

// FailureCatalog assigns stable codes to rejection sentinels, so a replayed
// failure keeps its identity: a stored date conflict resolves back to the
// date-conflict sentinel instead of an anonymous error.
type FailureCatalog struct {
	entries []catalogEntry
	byCode  map[string]error
}

type catalogEntry struct {
	code     string
	sentinel error
}

func NewFailureCatalog() *FailureCatalog {
	return &FailureCatalog{byCode: make(map[string]error)}
}

// Register maps a sentinel to a code. Registration order decides
// classification priority for wrapped errors.
func (c *FailureCatalog) Register(code string, sentinel error) *FailureCatalog {
	c.entries = append(c.entries, catalogEntry{code: code, sentinel: sentinel})
	c.byCode[code] = sentinel
	return c
}

func (c *FailureCatalog) classify(err error) (string, bool) {
	for _, entry := range c.entries {
		if errors.Is(err, entry.sentinel) {
			return entry.code, true
		}
	}
	return "", false
}

func (c *FailureCatalog) sentinelFor(code string) (error, bool) {
	sentinel, ok := c.byCode[code]
	return sentinel, ok
}

// replayedFailure carries the stored message while unwrapping to the
// original sentinel, so errors.Is keeps working across the replay.
type replayedFailure struct {
	sentinel error
	msg      string
}

func (e replayedFailure) Error() string { return e.msg }

func (e replayedFailure) Unwrap() error { return e.sentinel }

var errMissingPrototype = errors.New("middleware: idempotent command requires result prototype")

// Idempotency replays the stored outcome for a request key instead of
// re-running the handler. Failures replay too; a retried request cannot
// succeed after its first attempt was rejected. catalog may be nil, in
// which case failures replay as plain errors.
func Idempotency(store IdempotencyStore, codec ResultCodec, catalog *FailureCatalog) CommandMiddleware {
	if store == nil {
		panic("middleware: idempotency store required")
	}
	if codec == nil {
		codec = JSONResultCodec{}
	}
	rp := replayer{store: store, codec: codec, catalog: catalog}
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			keyed, ok := cmd.(IdempotentCommand)
			if !ok || keyed.IdempotencyKey() == "" {
				return nextFn(ctx, cmd)
			}
			key := keyed.IdempotencyKey()

			rec, found, err := store.Get(ctx, key)
			if err != nil {
				return nil, err
			}
			if found {
				return rp.replay(rec, keyed)
			}

			result, handleErr := nextFn(ctx, cmd)
			if saveErr := rp.persist(ctx, key, result, handleErr); saveErr != nil {
				if handleErr != nil {
					return nil, errors.Join(handleErr, saveErr)
				}
				return nil, saveErr
			}
			return result, handleErr
		})
	}
}

type replayer struct {
	store   IdempotencyStore
	codec   ResultCodec
	catalog *FailureCatalog
}

func (r replayer) replay(rec IdempotencyRecord, cmd IdempotentCommand) (any, error) {
	if rec.failed() {
		return nil, r.failure(rec)
	}
	proto := cmd.ResultPrototype()
	if proto == nil {
		return nil, errMissingPrototype
	}
	if err := r.codec.Decode(rec.Payload, proto); err != nil {
		return nil, err
	}
	if rv := reflect.ValueOf(proto); rv.Kind() == reflect.Ptr && !rv.IsNil() {
		return rv.Interface(), nil
	}
	return proto, nil
}

func (r replayer) failure(rec IdempotencyRecord) error {
	if r.catalog != nil && rec.FailureCode != "" {
		if sentinel, ok := r.catalog.sentinelFor(rec.FailureCode); ok {
			return replayedFailure{sentinel: sentinel, msg: rec.FailureMsg}
		}
	}
	return errors.New(rec.FailureMsg)
}

func (r replayer) persist(ctx context.Context, key string, result any, handleErr error) error {
	rec := IdempotencyRecord{Key: key, OccurredAt: time.Now().UTC()}
	if handleErr != nil {
		rec.FailureMsg = handleErr.Error()
		if r.catalog != nil {
			if code, ok := r.catalog.classify(handleErr); ok {
				rec.FailureCode = code
			}
		}
		return r.store.Save(ctx, rec)
	}
	if result != nil {
		payload, err := r.codec.Encode(result)
		if err != nil {
			return err
		}
		rec.Payload = payload
	}
	return r.store.Save(ctx, rec)
}
