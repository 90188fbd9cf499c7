package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"refguard/internal/donation"
	"refguard/internal/reference"
	"refguard/pkg/platform/sentinel"
)

const (
	donationKeyPrefix = "refguard:donation:"
	donorKeyPrefix    = "refguard:donor:"
	profileKeyPrefix  = "refguard:profile:"
	teamKeyPrefix     = "refguard:team:"
)

// Store keeps donations, profiles and teams as JSON values. Each donor has a
// set indexing their donation ids.
type Store struct {
	client redis.Cmdable
}

func New(client redis.Cmdable) *Store {
	return &Store{client: client}
}

func donationKey(id uuid.UUID) string { return donationKeyPrefix + id.String() }
func donorKey(id reference.ID) string { return donorKeyPrefix + id.String() + ":donations" }
func profileKey(id reference.ID) string { return profileKeyPrefix + id.String() }
func teamKey(id uuid.UUID) string { return teamKeyPrefix + id.String() }

func (s *Store) SaveDonation(ctx context.Context, d *donation.Donation) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode donation: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, donationKey(d.ID), payload, 0)
		pipe.SAdd(ctx, donorKey(d.Donor.ID), d.ID.String())
		return nil
	})
	if err != nil {
		return fmt.Errorf("save donation: %w", err)
	}
	return nil
}

func (s *Store) FindDonation(ctx context.Context, id uuid.UUID) (*donation.Donation, error) {
	var d donation.Donation
	if err := s.get(ctx, donationKey(id), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// ListByDonor returns a donor's donations oldest first.
func (s *Store) ListByDonor(ctx context.Context, donorID reference.ID) ([]*donation.Donation, error) {
	ids, err := s.client.SMembers(ctx, donorKey(donorID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list donor index: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = donationKeyPrefix + id
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load donations: %w", err)
	}

	out := make([]*donation.Donation, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// index entry without a value
			continue
		}
		var d donation.Donation
		if err := json.Unmarshal([]byte(raw), &d); err != nil {
			return nil, fmt.Errorf("decode donation %s: %w", ids[i], err)
		}
		out = append(out, &d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) SaveProfile(ctx context.Context, p *donation.Profile) error {
	return s.set(ctx, profileKey(p.User.ID), p)
}

func (s *Store) FindProfile(ctx context.Context, userID reference.ID) (*donation.Profile, error) {
	var p donation.Profile
	if err := s.get(ctx, profileKey(userID), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) SaveTeam(ctx context.Context, t *donation.Team) error {
	return s.set(ctx, teamKey(t.ID), t)
}

func (s *Store) FindTeam(ctx context.Context, id uuid.UUID) (*donation.Team, error) {
	var t donation.Team
	if err := s.get(ctx, teamKey(id), &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) set(ctx context.Context, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, payload, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string, v any) error {
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return sentinel.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}
