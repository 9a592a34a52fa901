package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	sqlc "github.com/Flarenzy/wg-fleet/internal/db/sqlc"
	"github.com/Flarenzy/wg-fleet/internal/domain"
)

type MetadataRepository struct {
	queries *sqlc.Queries
}

var _ domain.PeerMetadataRepository = (*MetadataRepository)(nil)

func NewMetadataRepository(queries *sqlc.Queries) *MetadataRepository {
	return &MetadataRepository{queries: queries}
}

func (r *MetadataRepository) ListByInterface(ctx context.Context, interfaceName string) ([]domain.PeerMetadata, error) {
	rows, err := r.queries.ListPeerMetadataByInterface(ctx, interfaceName)
	if err != nil {
		return nil, err
	}
	return toDomainMetadataList(rows), nil
}

func (r *MetadataRepository) Find(ctx context.Context, interfaceName, peerID string) (domain.PeerMetadata, error) {
	row, err := r.queries.GetPeerMetadata(ctx, sqlc.GetPeerMetadataParams{
		InterfaceName: interfaceName,
		PeerID:        peerID,
	})
	if err != nil {
		if isNoRows(err) {
			return domain.PeerMetadata{}, domain.ErrNotFound
		}
		return domain.PeerMetadata{}, err
	}
	return toDomainMetadata(row), nil
}

func (r *MetadataRepository) Upsert(ctx context.Context, meta domain.PeerMetadata) error {
	params := sqlc.UpsertPeerMetadataParams{
		InterfaceName:    meta.InterfaceName,
		PeerID:           meta.PeerID,
		PublicKey:        meta.PublicKey,
		PeerGroup:        meta.Group,
		GroupColor:       meta.GroupColor,
		Tags:             nonNil(meta.Tags),
		Notes:            meta.Notes,
		SealedPrivateKey: meta.SealedPrivateKey,
		EnrichmentFailed: meta.EnrichmentFailed,
		EnrichmentError:  meta.EnrichmentError,
		Mtu:              int32(meta.MTU),
	}
	if meta.TemplateID != nil {
		params.TemplateID = pgtype.Int8{Int64: *meta.TemplateID, Valid: true}
	}
	return r.queries.UpsertPeerMetadata(ctx, params)
}

// SetExpiry creates the row when the peer has no metadata yet. A nil at
// clears the schedule.
func (r *MetadataRepository) SetExpiry(ctx context.Context, interfaceName, peerID string, at *time.Time, action domain.ExpiryAction) error {
	params := sqlc.SetPeerExpiryParams{
		InterfaceName: interfaceName,
		PeerID:        peerID,
		ExpiryAction:  string(action),
	}
	if at != nil {
		params.ExpiresAt = timestamptz(*at)
	} else {
		params.ExpiryAction = ""
	}
	return r.queries.SetPeerExpiry(ctx, params)
}

func (r *MetadataRepository) MarkEnrichmentFailed(ctx context.Context, interfaceName, peerID, reason string) error {
	return r.queries.MarkPeerEnrichmentFailed(ctx, sqlc.MarkPeerEnrichmentFailedParams{
		InterfaceName:   interfaceName,
		PeerID:          peerID,
		EnrichmentError: reason,
	})
}

func (r *MetadataRepository) Delete(ctx context.Context, interfaceName, peerID string) error {
	return r.queries.DeletePeerMetadata(ctx, sqlc.DeletePeerMetadataParams{
		InterfaceName: interfaceName,
		PeerID:        peerID,
	})
}

func (r *MetadataRepository) ListExpired(ctx context.Context, now time.Time) ([]domain.PeerMetadata, error) {
	rows, err := r.queries.ListExpiredPeerMetadata(ctx, timestamptz(now))
	if err != nil {
		return nil, err
	}
	return toDomainMetadataList(rows), nil
}

func toDomainMetadataList(rows []sqlc.PeerMetadatum) []domain.PeerMetadata {
	out := make([]domain.PeerMetadata, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainMetadata(row))
	}
	return out
}

func toDomainMetadata(row sqlc.PeerMetadatum) domain.PeerMetadata {
	meta := domain.PeerMetadata{
		PeerID:           row.PeerID,
		InterfaceName:    row.InterfaceName,
		PublicKey:        row.PublicKey,
		Group:            row.PeerGroup,
		GroupColor:       row.GroupColor,
		Tags:             row.Tags,
		Notes:            row.Notes,
		SealedPrivateKey: row.SealedPrivateKey,
		ExpiresAt:        timePtr(row.ExpiresAt),
		ExpiryAction:     domain.ExpiryAction(row.ExpiryAction),
		EnrichmentFailed: row.EnrichmentFailed,
		EnrichmentError:  row.EnrichmentError,
		UpdatedAt:        row.UpdatedAt.Time,
		MTU:              int(row.Mtu),
	}
	if row.TemplateID.Valid {
		id := row.TemplateID.Int64
		meta.TemplateID = &id
	}
	return meta
}
