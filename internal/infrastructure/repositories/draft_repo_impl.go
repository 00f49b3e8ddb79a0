package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-jose/go-jose/v3"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"seller-onboarding.backend/internal/domain/entities"
	domainerrors "seller-onboarding.backend/internal/domain/errors"
	"seller-onboarding.backend/pkg/crypto"
	"seller-onboarding.backend/pkg/utils"
)

const (
	draftKeyPrefix   = "onboarding:draft:"
	draftKeyPurpose  = "onboarding-draft-v1"
	draftContentType = "onboarding-draft+json"

	draftFieldRevision = "rev"
	draftFieldData     = "data"
)

// saveDraftScript writes the draft hash only while its revision still equals ARGV[1].
// A missing key has the empty revision.
var saveDraftScript = goredis.NewScript(`
local current = redis.call("HGET", KEYS[1], "rev") or ""
if current ~= ARGV[1] then
	return 0
end
redis.call("HSET", KEYS[1], "rev", ARGV[2], "data", ARGV[3])
redis.call("PEXPIRE", KEYS[1], ARGV[4])
return 1
`)

// DraftRepository stores onboarding drafts in Redis as JWE compact tokens,
// in a hash next to the revision used for compare-and-set saves
type DraftRepository struct {
	client    *goredis.Client
	ttl       time.Duration
	key       []byte
	encrypter jose.Encrypter
}

// NewDraftRepository derives the draft key from secret and prepares the encrypter
func NewDraftRepository(client *goredis.Client, secret string, ttl time.Duration) (*DraftRepository, error) {
	key, err := crypto.DeriveKey(secret, draftKeyPurpose)
	if err != nil {
		return nil, err
	}

	opts := (&jose.EncrypterOptions{}).WithContentType(draftContentType)
	enc, err := jose.NewEncrypter(jose.A256GCM, jose.Recipient{Algorithm: jose.DIRECT, Key: key}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create draft encrypter: %w", err)
	}

	return &DraftRepository{client: client, ttl: ttl, key: key, encrypter: enc}, nil
}

func draftKey(userID uuid.UUID) string {
	return draftKeyPrefix + userID.String()
}

func (r *DraftRepository) Get(ctx context.Context, userID uuid.UUID) (*entities.OnboardingDraft, error) {
	fields, err := r.client.HMGet(ctx, draftKey(userID), draftFieldRevision, draftFieldData).Result()
	if err != nil {
		return nil, err
	}
	token, ok := fields[1].(string)
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	revision, _ := fields[0].(string)

	payload, err := r.decrypt(token)
	if err != nil {
		return nil, err
	}

	draft := entities.NewOnboardingDraft()
	if err := json.Unmarshal(payload, draft); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	if draft.CompletedSteps == nil {
		draft.CompletedSteps = []int{}
	}
	draft.Revision = revision
	return draft, nil
}

func (r *DraftRepository) Save(ctx context.Context, userID uuid.UUID, draft *entities.OnboardingDraft) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}

	obj, err := r.encrypter.Encrypt(payload)
	if err != nil {
		return fmt.Errorf("failed to encrypt draft: %w", err)
	}
	token, err := obj.CompactSerialize()
	if err != nil {
		return fmt.Errorf("failed to serialize draft: %w", err)
	}

	revision := utils.GenerateUUIDv7().String()
	saved, err := saveDraftScript.Run(ctx, r.client, []string{draftKey(userID)},
		draft.Revision, revision, token, r.ttl.Milliseconds()).Int()
	if err != nil {
		return err
	}
	if saved == 0 {
		return domainerrors.ErrDraftConflict
	}
	draft.Revision = revision
	return nil
}

func (r *DraftRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	return r.client.Del(ctx, draftKey(userID)).Err()
}

func (r *DraftRepository) decrypt(token string) ([]byte, error) {
	obj, err := jose.ParseEncrypted(token)
	if err != nil {
		return nil, fmt.Errorf("failed to parse draft token: %w", err)
	}
	payload, err := obj.Decrypt(r.key)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt draft: %w", err)
	}
	return payload, nil
}
