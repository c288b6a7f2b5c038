package listingrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"shoemarket/internal/domain"
	"shoemarket/internal/errors"
	"shoemarket/internal/pkg/cache"
	"shoemarket/internal/pkg/logger"
)

// Define a chave de cache para anúncios individuais.
const listingCacheKey = "listing:%s"

const listingColumns = `id, name, brand, description, tags, condition, category, color, material,
	target_gender, age_group, season, style, weight, manufacturer, country_of_origin, sku,
	price, original_price, rating, rating_count, views, likes, featured, in_stock, is_active,
	sizes, image, additional_images, seller_id, seller_email, created_at, updated_at`

// ListingRepository implementa domain.ListingRepository sobre o PostgreSQL,
// com cache-aside no Redis para a leitura por ID (tela de detalhes).
type ListingRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	CacheTTL  time.Duration
	logger    logger.Logger
}

// NewListingRepository cria e retorna uma nova instância do Repositório de anúncios.
func NewListingRepository(db *sql.DB, cacheClient cache.Client, dbTimeout, cacheTTL time.Duration, logger logger.Logger) *ListingRepository {
	return &ListingRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		CacheTTL:  cacheTTL,
		logger:    logger,
	}
}

// rowScanner cobre *sql.Row e *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanListing aplica os valores neutros na fronteira de desserialização:
// arrays nulos viram slices vazios e apenas in_stock/is_active mantêm o "não informado".
func scanListing(s rowScanner) (domain.Listing, error) {
	var (
		l             domain.Listing
		tags, images  pq.StringArray
		sizes         pq.Float64Array
		originalPrice sql.NullFloat64
		inStock       sql.NullBool
		isActive      sql.NullBool
	)
	err := s.Scan(
		&l.ID, &l.Name, &l.Brand, &l.Description, &tags, &l.Condition, &l.Category, &l.Color, &l.Material,
		&l.Gender, &l.AgeGroup, &l.Season, &l.Style, &l.Weight, &l.Manufacturer, &l.CountryOfOrigin, &l.SKU,
		&l.Price, &originalPrice, &l.Rating, &l.RatingCount, &l.Views, &l.Likes, &l.Featured, &inStock, &isActive,
		&sizes, &l.Image, &images, &l.SellerID, &l.SellerEmail, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return domain.Listing{}, err
	}

	l.Tags = nonNil(tags)
	l.AdditionalImages = nonNil(images)
	l.Sizes = []float64(sizes)
	if l.Sizes == nil {
		l.Sizes = []float64{}
	}
	if originalPrice.Valid {
		v := originalPrice.Float64
		l.OriginalPrice = &v
	}
	if inStock.Valid {
		v := inStock.Bool
		l.InStock = &v
	}
	if isActive.Valid {
		v := isActive.Bool
		l.IsActive = &v
	}
	return l, nil
}

func nonNil(a pq.StringArray) []string {
	if a == nil {
		return []string{}
	}
	return []string(a)
}

// textArray e floatArray nunca gravam NULL nas colunas de array.
func textArray(a []string) interface{} {
	if a == nil {
		a = []string{}
	}
	return pq.Array(a)
}

func floatArray(a []float64) interface{} {
	if a == nil {
		a = []float64{}
	}
	return pq.Array(a)
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func nullBool(p *bool) sql.NullBool {
	if p == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *p, Valid: true}
}

func (r *ListingRepository) query(ctx context.Context, where string, args ...interface{}) ([]domain.Listing, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	q := `SELECT ` + listingColumns + ` FROM listings ` + where
	rows, err := r.DB.QueryContext(ctxTimeout, q, args...)
	if err != nil {
		return nil, errors.NewDBError("Falha ao consultar anúncios", err)
	}
	defer rows.Close()

	listings := make([]domain.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, errors.NewDBError("Falha ao ler anúncio", err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar anúncios", err)
	}
	return listings, nil
}

// FindAll carrega o snapshot completo do catálogo, do mais novo ao mais antigo.
func (r *ListingRepository) FindAll(ctx context.Context) ([]domain.Listing, error) {
	listings, err := r.query(ctx, `ORDER BY created_at DESC, id`)
	if err != nil {
		r.logger.Error("Falha ao carregar snapshot do catálogo.", err)
		return nil, err
	}
	r.logger.Debug("Snapshot do catálogo carregado.", map[string]interface{}{"count": len(listings)})
	return listings, nil
}

// FindBySeller lista os anúncios de um vendedor ("Meus anúncios").
func (r *ListingRepository) FindBySeller(ctx context.Context, sellerID string) ([]domain.Listing, error) {
	return r.query(ctx, `WHERE seller_id = $1 ORDER BY created_at DESC, id`, sellerID)
}

// FindByIDs busca vários anúncios; IDs inexistentes são simplesmente omitidos.
func (r *ListingRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.Listing, error) {
	if len(ids) == 0 {
		return []domain.Listing{}, nil
	}
	return r.query(ctx, `WHERE id = ANY($1) ORDER BY created_at DESC, id`, pq.Array(ids))
}

// FindByID busca um anúncio pelo ID, utilizando a estratégia Cache-Aside.
func (r *ListingRepository) FindByID(ctx context.Context, id string) (domain.Listing, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	key := fmt.Sprintf(listingCacheKey, id)

	// Cache HIT
	if cached, err := r.Cache.Get(ctxTimeout, key); err == nil {
		var l domain.Listing
		if json.Unmarshal([]byte(cached), &l) == nil {
			return l, nil
		}
	} else if err != cache.ErrCacheMiss {
		r.logger.Warn("Falha ao ler anúncio do cache, seguindo para o DB.", map[string]interface{}{"id": id, "error": err.Error()})
	}

	row := r.DB.QueryRowContext(ctxTimeout, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, id)
	l, err := scanListing(row)
	if err == sql.ErrNoRows {
		return domain.Listing{}, errors.NewNotFoundError(fmt.Sprintf("Anúncio com ID %s não existe.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar anúncio no DB.", err)
		return domain.Listing{}, errors.NewDBError("Falha ao buscar anúncio", err)
	}

	if payload, err := json.Marshal(l); err == nil {
		if err := r.Cache.Set(ctxTimeout, key, payload, r.CacheTTL); err != nil {
			r.logger.Warn("Falha ao gravar anúncio no cache.", map[string]interface{}{"id": id, "error": err.Error()})
		}
	}
	return l, nil
}

// Create insere um novo anúncio.
func (r *ListingRepository) Create(ctx context.Context, l domain.Listing) (domain.Listing, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	l.CreatedAt = now
	l.UpdatedAt = now

	query := `INSERT INTO listings (` + listingColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29,$30,$31,$32,$33)`

	_, err := r.DB.ExecContext(ctxTimeout, query,
		l.ID, l.Name, l.Brand, l.Description, textArray(l.Tags), l.Condition, l.Category, l.Color, l.Material,
		l.Gender, l.AgeGroup, l.Season, l.Style, l.Weight, l.Manufacturer, l.CountryOfOrigin, l.SKU,
		l.Price, nullFloat(l.OriginalPrice), l.Rating, l.RatingCount, l.Views, l.Likes, l.Featured,
		nullBool(l.InStock), nullBool(l.IsActive),
		floatArray(l.Sizes), l.Image, textArray(l.AdditionalImages), l.SellerID, l.SellerEmail, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir anúncio no DB.", err)
		return domain.Listing{}, errors.NewDBError("Falha ao criar anúncio", err)
	}

	r.logger.Info("Anúncio criado com sucesso.", map[string]interface{}{"id": l.ID, "seller_id": l.SellerID})
	return l, nil
}

// Update regrava os campos editáveis do anúncio. Contadores (views, rating) não são tocados.
func (r *ListingRepository) Update(ctx context.Context, l domain.Listing) (domain.Listing, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	l.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE listings SET
			name = $2, brand = $3, description = $4, tags = $5, condition = $6, category = $7, color = $8,
			material = $9, target_gender = $10, age_group = $11, season = $12, style = $13, weight = $14,
			manufacturer = $15, country_of_origin = $16, sku = $17, price = $18, original_price = $19,
			featured = $20, in_stock = $21, sizes = $22, image = $23, additional_images = $24, updated_at = $25
		WHERE id = $1`

	result, err := r.DB.ExecContext(ctxTimeout, query,
		l.ID, l.Name, l.Brand, l.Description, textArray(l.Tags), l.Condition, l.Category, l.Color,
		l.Material, l.Gender, l.AgeGroup, l.Season, l.Style, l.Weight,
		l.Manufacturer, l.CountryOfOrigin, l.SKU, l.Price, nullFloat(l.OriginalPrice),
		l.Featured, nullBool(l.InStock), floatArray(l.Sizes), l.Image, textArray(l.AdditionalImages), l.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao atualizar anúncio no DB.", err)
		return domain.Listing{}, errors.NewDBError("Falha ao atualizar anúncio", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.Listing{}, errors.NewNotFoundError(fmt.Sprintf("Anúncio com ID %s não existe.", l.ID))
	}

	r.invalidate(ctxTimeout, l.ID)
	return l, nil
}

// Delete remove o anúncio.
func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao remover anúncio no DB.", err)
		return errors.NewDBError("Falha ao remover anúncio", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Anúncio com ID %s não existe.", id))
	}

	r.invalidate(ctxTimeout, id)
	r.logger.Info("Anúncio removido.", map[string]interface{}{"id": id})
	return nil
}

// IncrementViews soma uma visualização. O cache não é invalidado: o contador do
// detalhe pode ficar defasado até o TTL.
func (r *ListingRepository) IncrementViews(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if _, err := r.DB.ExecContext(ctxTimeout, `UPDATE listings SET views = views + 1 WHERE id = $1`, id); err != nil {
		return errors.NewDBError("Falha ao incrementar visualizações", err)
	}
	return nil
}

func (r *ListingRepository) invalidate(ctx context.Context, id string) {
	if err := r.Cache.Delete(ctx, fmt.Sprintf(listingCacheKey, id)); err != nil {
		r.logger.Warn("Falha ao invalidar anúncio no cache.", map[string]interface{}{"id": id, "error": err.Error()})
	}
}
