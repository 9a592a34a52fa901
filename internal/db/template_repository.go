package db

import (
	"context"
	"fmt"

	sqlc "github.com/Flarenzy/wg-fleet/internal/db/sqlc"
	"github.com/Flarenzy/wg-fleet/internal/domain"
)

const uniqueTemplateName = "unique_template_name"

type TemplateRepository struct {
	queries *sqlc.Queries
}

var _ domain.TemplateRepository = (*TemplateRepository)(nil)

func NewTemplateRepository(queries *sqlc.Queries) *TemplateRepository {
	return &TemplateRepository{queries: queries}
}

func (r *TemplateRepository) List(ctx context.Context) ([]domain.Template, error) {
	rows, err := r.queries.ListTemplates(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Template, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainTemplate(row))
	}
	return out, nil
}

func (r *TemplateRepository) FindByID(ctx context.Context, id int64) (domain.Template, error) {
	row, err := r.queries.GetTemplateByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return domain.Template{}, domain.ErrNotFound
		}
		return domain.Template{}, err
	}
	return toDomainTemplate(row), nil
}

func (r *TemplateRepository) Create(ctx context.Context, input domain.CreateTemplateInput) (domain.Template, error) {
	row, err := r.queries.CreateTemplate(ctx, sqlc.CreateTemplateParams{
		Name:                input.Name,
		AllowedAddress:      input.AllowedAddress,
		PersistentKeepalive: int32(input.PersistentKeepalive),
		Dns:                 nonNil(input.DNS),
		EndpointAddress:     input.EndpointAddress,
		EndpointPort:        int32(input.EndpointPort),
		PresharedKey:        input.PresharedKey,
		Mtu:                 int32(input.MTU),
		PeerGroup:           input.Group,
		GroupColor:          input.GroupColor,
		Tags:                nonNil(input.Tags),
		NotesPattern:        input.NotesPattern,
	})
	if err != nil {
		if isUniqueViolation(err, uniqueTemplateName) {
			return domain.Template{}, fmt.Errorf("%w: template %q already exists", domain.ErrConflict, input.Name)
		}
		return domain.Template{}, err
	}
	return toDomainTemplate(row), nil
}

func (r *TemplateRepository) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := r.queries.DeleteTemplateByID(ctx, id)
	if err != nil {
		return false, err
	}
	return deleted > 0, nil
}

func toDomainTemplate(row sqlc.PeerTemplate) domain.Template {
	return domain.Template{
		ID:                  row.ID,
		Name:                row.Name,
		AllowedAddress:      row.AllowedAddress,
		PersistentKeepalive: int(row.PersistentKeepalive),
		DNS:                 row.Dns,
		EndpointAddress:     row.EndpointAddress,
		EndpointPort:        int(row.EndpointPort),
		PresharedKey:        row.PresharedKey,
		MTU:                 int(row.Mtu),
		Group:               row.PeerGroup,
		GroupColor:          row.GroupColor,
		Tags:                row.Tags,
		NotesPattern:        row.NotesPattern,
		CreatedAt:           row.CreatedAt.Time,
		UpdatedAt:           row.UpdatedAt.Time,
	}
}
