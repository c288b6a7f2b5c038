// Package firestorerepo lê o catálogo de anúncios de uma coleção do Firestore em tempo real.
package firestorerepo

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"shoemarket/internal/domain"
	"shoemarket/internal/pkg/logger"
)

// Collection é a coleção que guarda os anúncios.
const Collection = "shoes"

// ErrAlreadySubscribed é devolvido quando o feed já tem um assinante ativo.
var ErrAlreadySubscribed = stderrors.New("feed do Firestore já possui um assinante")

// Feed implementa domain.ListingFeed sobre query.Snapshots.
type Feed struct {
	client     *firestore.Client
	logger     logger.Logger
	retryDelay time.Duration

	mu         sync.Mutex
	subscribed bool
}

// NewClient abre o cliente do Firestore. credsFile vazio usa as credenciais padrão do ambiente.
func NewClient(ctx context.Context, projectID, credsFile string) (*firestore.Client, error) {
	var opts []option.ClientOption
	if credsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credsFile))
	}
	return firestore.NewClient(ctx, projectID, opts...)
}

// NewFeed cria o feed sobre um cliente já aberto.
func NewFeed(client *firestore.Client, log logger.Logger) *Feed {
	return &Feed{client: client, logger: log, retryDelay: 5 * time.Second}
}

// Subscribe escuta a coleção ordenada por createdAt desc. Cada alteração entrega o
// snapshot completo. Um erro do stream é reportado e o stream é reaberto após retryDelay.
func (f *Feed) Subscribe(ctx context.Context, onSnapshot func([]domain.Listing), onError func(error)) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subscribed {
		return nil, ErrAlreadySubscribed
	}
	f.subscribed = true

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go f.run(runCtx, done, onSnapshot, onError)

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
			f.mu.Lock()
			f.subscribed = false
			f.mu.Unlock()
		})
	}, nil
}

func (f *Feed) run(ctx context.Context, done chan struct{}, onSnapshot func([]domain.Listing), onError func(error)) {
	defer close(done)

	query := f.client.Collection(Collection).OrderBy("createdAt", firestore.Desc)
	for {
		err := f.stream(ctx, query, onSnapshot)
		if ctx.Err() != nil {
			return
		}
		f.logger.Warn("Stream do Firestore interrompido, reabrindo.", map[string]interface{}{"error": err.Error()})
		onError(err)

		select {
		case <-ctx.Done():
			return
		case <-time.After(f.retryDelay):
		}
	}
}

func (f *Feed) stream(ctx context.Context, query firestore.Query, onSnapshot func([]domain.Listing)) error {
	it := query.Snapshots(ctx)
	defer it.Stop()

	for {
		snap, err := it.Next()
		if err != nil {
			if status.Code(err) == codes.Canceled {
				return ctx.Err()
			}
			return err
		}
		docs, err := snap.Documents.GetAll()
		if err != nil {
			return err
		}
		listings := make([]domain.Listing, 0, len(docs))
		for _, doc := range docs {
			listings = append(listings, DecodeListing(doc.Ref.ID, doc.Data()))
		}
		onSnapshot(listings)
	}
}

// DecodeListing converte um documento em Listing. Campos ausentes ou de tipo inesperado
// viram o valor neutro; inStock e isActive só são preenchidos quando são booleanos.
func DecodeListing(id string, data map[string]interface{}) domain.Listing {
	getStr := func(key string) string {
		if v, ok := data[key].(string); ok {
			return strings.TrimSpace(v)
		}
		return ""
	}
	getBoolPtr := func(key string) *bool {
		if v, ok := data[key].(bool); ok {
			return &v
		}
		return nil
	}
	getTime := func(key string) time.Time {
		if v, ok := data[key].(time.Time); ok {
			return v.UTC()
		}
		return time.Time{}
	}

	l := domain.Listing{
		ID:               id,
		Name:             getStr("name"),
		Brand:            getStr("brand"),
		Description:      getStr("description"),
		Tags:             toStrings(data["tags"]),
		Condition:        getStr("condition"),
		Category:         getStr("category"),
		Color:            getStr("color"),
		Material:         getStr("material"),
		Gender:           getStr("targetGender"),
		AgeGroup:         getStr("ageGroup"),
		Season:           getStr("season"),
		Style:            getStr("style"),
		Weight:           getStr("weight"),
		Manufacturer:     getStr("manufacturer"),
		CountryOfOrigin:  getStr("countryOfOrigin"),
		SKU:              getStr("sku"),
		Price:            toFloat(data["price"]),
		Rating:           toFloat(data["rating"]),
		RatingCount:      int(toFloat(data["ratingCount"])),
		Views:            int(toFloat(data["views"])),
		Likes:            int(toFloat(data["likes"])),
		InStock:          getBoolPtr("inStock"),
		IsActive:         getBoolPtr("isActive"),
		Sizes:            toFloats(data["sizes"]),
		Image:            getStr("image"),
		AdditionalImages: toStrings(data["additionalImages"]),
		SellerID:         getStr("sellerId"),
		SellerEmail:      getStr("sellerEmail"),
		CreatedAt:        getTime("createdAt"),
		UpdatedAt:        getTime("updatedAt"),
	}
	if v, ok := data["featured"].(bool); ok {
		l.Featured = v
	}
	if _, ok := data["originalPrice"]; ok {
		op := toFloat(data["originalPrice"])
		l.OriginalPrice = &op
	}
	return l
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	}
	return 0
}

func toFloats(v interface{}) []float64 {
	raw, ok := v.([]interface{})
	if !ok {
		return []float64{}
	}
	out := make([]float64, 0, len(raw))
	for _, x := range raw {
		switch x.(type) {
		case float64, int64, int:
			out = append(out, toFloat(x))
		}
	}
	return out
}

func toStrings(v interface{}) []string {
	raw, ok := v.([]interface{})
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(raw))
	for _, x := range raw {
		if s, ok := x.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
