package authkit

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
)

const otpRecordVersionV1 = 1

var (
	errOTPNotFound          = errors.New("otp record not found")
	errOTPCodeExpired       = errors.New("otp record expired")
	errOTPCodeMismatch      = errors.New("otp code mismatch")
	errOTPAttemptsExhausted = errors.New("otp attempts exhausted")
	errOTPRedisUnavailable  = errors.New("otp redis unavailable")
)

type otpRecord struct {
	AccountID string
	CodeHash  [32]byte
	ExpiresAt int64
	Attempts  uint16
	Purpose   OTPPurpose
}

type otpStore struct {
	redis  *redis.Client
	prefix string
	cfg    OTPConfig
}

func newOTPStore(redisClient *redis.Client, cfg OTPConfig) *otpStore {
	return &otpStore{
		redis:  redisClient,
		prefix: cfg.RedisPrefix,
		cfg:    cfg,
	}
}

// One challenge per purpose per account: a second Save overwrites the first.
func (s *otpStore) key(purpose OTPPurpose, accountID string) string {
	return s.prefix + ":" + purpose.String() + ":" + accountID
}

// Save describes the save operation and its observable behavior.
//
// Save may return an error when input validation, dependency calls, or security checks fail.
// Save does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *otpStore) Save(ctx context.Context, record *otpRecord) error {
	encoded, err := encodeOTPRecord(record)
	if err != nil {
		return err
	}

	// The Redis TTL outlives the logical expiry by the retention window so a
	// late verification attempt reads "expired" rather than "not found".
	ttl := time.Until(time.Unix(record.ExpiresAt, 0)) + s.cfg.ExpiredRetention
	if ttl <= 0 {
		return errOTPCodeExpired
	}

	if err := s.redis.Set(ctx, s.key(record.Purpose, record.AccountID), encoded, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", errOTPRedisUnavailable, err)
	}

	return nil
}

// Consume describes the consume operation and its observable behavior.
//
// Consume may return an error when input validation, dependency calls, or security checks fail.
// Consume does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *otpStore) Consume(
	ctx context.Context,
	purpose OTPPurpose,
	accountID string,
	providedHash [32]byte,
	maxAttempts int,
) (*otpRecord, error) {
	const maxRetries = 4
	key := s.key(purpose, accountID)

	for i := 0; i < maxRetries; i++ {
		var matched *otpRecord

		err := s.redis.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if err != nil {
				return err
			}

			record, err := decodeOTPRecord(data)
			if err != nil {
				return err
			}

			now := time.Now()
			if now.Unix() > record.ExpiresAt {
				_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
					pipe.Del(ctx, key)
					return nil
				})
				if err != nil {
					return err
				}
				return errOTPCodeExpired
			}

			if subtle.ConstantTimeCompare(record.CodeHash[:], providedHash[:]) != 1 {
				record.Attempts++
				if int(record.Attempts) >= maxAttempts {
					_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
						pipe.Del(ctx, key)
						return nil
					})
					if err != nil {
						return err
					}
					return errOTPAttemptsExhausted
				}

				ttl := time.Until(time.Unix(record.ExpiresAt, 0)) + s.cfg.ExpiredRetention
				if ttl <= 0 {
					_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
						pipe.Del(ctx, key)
						return nil
					})
					if err != nil {
						return err
					}
					return errOTPCodeExpired
				}

				updated, err := encodeOTPRecord(record)
				if err != nil {
					return err
				}

				_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
					pipe.Set(ctx, key, updated, ttl)
					return nil
				})
				if err != nil {
					return err
				}
				return errOTPCodeMismatch
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Del(ctx, key)
				return nil
			})
			if err != nil {
				return err
			}

			matched = record
			return nil
		}, key)

		if err == redis.TxFailedErr {
			continue
		}
		if err != nil {
			switch {
			case errors.Is(err, redis.Nil):
				return nil, errOTPNotFound
			case errors.Is(err, errOTPNotFound),
				errors.Is(err, errOTPCodeExpired),
				errors.Is(err, errOTPCodeMismatch),
				errors.Is(err, errOTPAttemptsExhausted):
				return nil, err
			default:
				return nil, fmt.Errorf("%w: %v", errOTPRedisUnavailable, err)
			}
		}

		return matched, nil
	}

	return nil, errOTPNotFound
}

// Delete describes the delete operation and its observable behavior.
//
// Delete may return an error when input validation, dependency calls, or security checks fail.
// Delete does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *otpStore) Delete(ctx context.Context, purpose OTPPurpose, accountID string) error {
	if err := s.redis.Del(ctx, s.key(purpose, accountID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", errOTPRedisUnavailable, err)
	}
	return nil
}

func encodeOTPRecord(record *otpRecord) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(otpRecordVersionV1)
	buf.WriteByte(byte(record.Purpose))

	if err := binary.Write(&buf, binary.BigEndian, record.Attempts); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, record.ExpiresAt); err != nil {
		return nil, err
	}

	if len(record.AccountID) > 65535 {
		return nil, errors.New("otp record account id too long")
	}
	if err := binary.Write(&buf, binary.BigEndian, uint16(len(record.AccountID))); err != nil {
		return nil, err
	}
	buf.WriteString(record.AccountID)
	buf.Write(record.CodeHash[:])

	return buf.Bytes(), nil
}

func decodeOTPRecord(data []byte) (*otpRecord, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != otpRecordVersionV1 {
		return nil, errors.New("invalid otp record version")
	}

	purpose, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}

	record := &otpRecord{
		Purpose: OTPPurpose(purpose),
	}

	if err := binary.Read(reader, binary.BigEndian, &record.Attempts); err != nil {
		return nil, err
	}
	if err := binary.Read(reader, binary.BigEndian, &record.ExpiresAt); err != nil {
		return nil, err
	}

	var accountIDLen uint16
	if err := binary.Read(reader, binary.BigEndian, &accountIDLen); err != nil {
		return nil, err
	}

	accountID := make([]byte, accountIDLen)
	if _, err := io.ReadFull(reader, accountID); err != nil {
		return nil, err
	}
	record.AccountID = string(accountID)

	if _, err := io.ReadFull(reader, record.CodeHash[:]); err != nil {
		return nil, err
	}

	return record, nil
}
