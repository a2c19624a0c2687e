package accounts

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/hearthside/authkit"
)

const (
	accountKeyPrefix       = "aacct"
	accountRecordVersionV1 = 1
)

var errAccountsRedisUnavailable = errors.New("accounts redis unavailable")

// RedisStore is a self-contained [authkit.AccountStore] backed by Redis.
// Records live under aacct:id:<uuid>; email uniqueness is enforced through a
// SETNX index at aacct:email:<email> pointing at the account id. Callers with
// an existing user database should implement the interface over it instead.
type RedisStore struct {
	redis *redis.Client
}

// NewRedisStore describes the newredisstore operation and its observable behavior.
//
// NewRedisStore may return an error when input validation, dependency calls, or security checks fail.
// NewRedisStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{redis: client}
}

func idKey(accountID string) string {
	return accountKeyPrefix + ":id:" + accountID
}

func emailKey(email string) string {
	return accountKeyPrefix + ":email:" + email
}

// Create describes the create operation and its observable behavior.
//
// Create may return an error when input validation, dependency calls, or security checks fail.
// Create does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisStore) Create(ctx context.Context, input authkit.CreateAccountInput) (authkit.Account, error) {
	account := authkit.Account{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		Verified:     input.Verified,
		CreatedAt:    time.Now().Unix(),
	}

	encoded, err := encodeAccountRecord(&account)
	if err != nil {
		return authkit.Account{}, err
	}

	// The email index is the uniqueness gate: claim it first, then write the
	// record. A crash between the two leaves a dangling index entry that a
	// retry with the same email surfaces as a duplicate.
	claimed, err := s.redis.SetNX(ctx, emailKey(account.Email), account.ID, 0).Result()
	if err != nil {
		return authkit.Account{}, fmt.Errorf("%w: %v", errAccountsRedisUnavailable, err)
	}
	if !claimed {
		return authkit.Account{}, authkit.ErrDuplicateAccount
	}

	if err := s.redis.Set(ctx, idKey(account.ID), encoded, 0).Err(); err != nil {
		_ = s.redis.Del(ctx, emailKey(account.Email)).Err()
		return authkit.Account{}, fmt.Errorf("%w: %v", errAccountsRedisUnavailable, err)
	}

	return account, nil
}

// GetByID describes the getbyid operation and its observable behavior.
//
// GetByID may return an error when input validation, dependency calls, or security checks fail.
// GetByID does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisStore) GetByID(ctx context.Context, accountID string) (authkit.Account, error) {
	data, err := s.redis.Get(ctx, idKey(accountID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return authkit.Account{}, authkit.ErrAccountNotFound
		}
		return authkit.Account{}, fmt.Errorf("%w: %v", errAccountsRedisUnavailable, err)
	}

	account, err := decodeAccountRecord(data)
	if err != nil {
		return authkit.Account{}, err
	}
	return *account, nil
}

// GetByEmail describes the getbyemail operation and its observable behavior.
//
// GetByEmail may return an error when input validation, dependency calls, or security checks fail.
// GetByEmail does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisStore) GetByEmail(ctx context.Context, email string) (authkit.Account, error) {
	accountID, err := s.redis.Get(ctx, emailKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return authkit.Account{}, authkit.ErrAccountNotFound
		}
		return authkit.Account{}, fmt.Errorf("%w: %v", errAccountsRedisUnavailable, err)
	}

	return s.GetByID(ctx, accountID)
}

// UpdateName describes the updatename operation and its observable behavior.
//
// UpdateName may return an error when input validation, dependency calls, or security checks fail.
// UpdateName does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisStore) UpdateName(ctx context.Context, accountID, name string) (authkit.Account, error) {
	var updated authkit.Account
	err := s.update(ctx, accountID, func(account *authkit.Account) {
		account.Name = name
		updated = *account
	})
	if err != nil {
		return authkit.Account{}, err
	}
	return updated, nil
}

// UpdatePasswordHash describes the updatepasswordhash operation and its observable behavior.
//
// UpdatePasswordHash may return an error when input validation, dependency calls, or security checks fail.
// UpdatePasswordHash does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisStore) UpdatePasswordHash(ctx context.Context, accountID, newHash string) error {
	return s.update(ctx, accountID, func(account *authkit.Account) {
		account.PasswordHash = newHash
	})
}

// MarkVerified describes the markverified operation and its observable behavior.
//
// MarkVerified may return an error when input validation, dependency calls, or security checks fail.
// MarkVerified does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisStore) MarkVerified(ctx context.Context, accountID string) error {
	return s.update(ctx, accountID, func(account *authkit.Account) {
		account.Verified = true
	})
}

// update applies mutate under WATCH so concurrent writers retry instead of
// clobbering each other.
func (s *RedisStore) update(ctx context.Context, accountID string, mutate func(*authkit.Account)) error {
	const maxRetries = 4
	key := idKey(accountID)

	for i := 0; i < maxRetries; i++ {
		err := s.redis.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if err != nil {
				return err
			}

			account, err := decodeAccountRecord(data)
			if err != nil {
				return err
			}

			mutate(account)

			encoded, err := encodeAccountRecord(account)
			if err != nil {
				return err
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, encoded, 0)
				return nil
			})
			return err
		}, key)

		if err == redis.TxFailedErr {
			continue
		}
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return authkit.ErrAccountNotFound
			}
			return fmt.Errorf("%w: %v", errAccountsRedisUnavailable, err)
		}

		return nil
	}

	return fmt.Errorf("%w: update contention", errAccountsRedisUnavailable)
}

func encodeAccountRecord(account *authkit.Account) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(accountRecordVersionV1)

	var verified byte
	if account.Verified {
		verified = 1
	}
	buf.WriteByte(verified)

	if err := binary.Write(&buf, binary.BigEndian, account.CreatedAt); err != nil {
		return nil, err
	}

	for _, field := range []string{account.ID, account.Name, account.Email, account.PasswordHash} {
		if len(field) > 65535 {
			return nil, errors.New("account record field too long")
		}
		if err := binary.Write(&buf, binary.BigEndian, uint16(len(field))); err != nil {
			return nil, err
		}
		buf.WriteString(field)
	}

	return buf.Bytes(), nil
}

func decodeAccountRecord(data []byte) (*authkit.Account, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != accountRecordVersionV1 {
		return nil, errors.New("invalid account record version")
	}

	verified, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}

	account := &authkit.Account{
		Verified: verified == 1,
	}

	if err := binary.Read(reader, binary.BigEndian, &account.CreatedAt); err != nil {
		return nil, err
	}

	for _, field := range []*string{&account.ID, &account.Name, &account.Email, &account.PasswordHash} {
		var length uint16
		if err := binary.Read(reader, binary.BigEndian, &length); err != nil {
			return nil, err
		}
		raw := make([]byte, length)
		if _, err := io.ReadFull(reader, raw); err != nil {
			return nil, err
		}
		*field = string(raw)
	}

	return account, nil
}
