package catalog

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/wholesalebox/internal/domain"
	"github.com/vladislavdragonenkov/wholesalebox/internal/metrics"
)

const (
	// DefaultPageSize — размер страницы витрины каталога.
	DefaultPageSize = 10

	// scanPageSize — размер страницы при полном обходе каталога в режиме
	// поиска. Крупнее витринной страницы, чтобы обход занимал меньше запросов.
	scanPageSize = 100
)

// ProductSource — постраничный источник каталога.
type ProductSource interface {
	ListProducts(ctx context.Context, token string, page, pageSize int) (domain.ProductPage, error)
}

// Query описывает один запрос страницы каталога.
type Query struct {
	// Term — поисковая подстрока; пустая строка означает постраничный режим.
	Term string
	// Page нумеруется с единицы.
	Page     int
	PageSize int
}

// Result — страница каталога вместе с итоговыми величинами пагинации.
// Page может отличаться от запрошенной: выход за последнюю страницу
// зажимается, а не возвращает пустой список.
type Result struct {
	Term       string           `json:"term,omitempty"`
	Page       int              `json:"page"`
	TotalPages int              `json:"totalPages"`
	TotalCount int              `json:"totalCount"`
	Items      []domain.Product `json:"items"`
}

// Pager выбирает между двумя режимами каталога: прямой постраничный
// запрос к бэкенду и поиск по полному снимку. Бэкенд не умеет искать,
// поэтому поиск обходит каталог целиком и фильтрует локально.
type Pager struct {
	source  ProductSource
	cache   domain.CatalogCache
	logger  *log.Entry
	metrics *metrics.StorefrontMetrics
}

// NewPager создаёт pager. cache может быть nil: тогда каждый поиск
// обходит бэкенд заново.
func NewPager(source ProductSource, cache domain.CatalogCache, logger *log.Entry, m *metrics.StorefrontMetrics) *Pager {
	if logger == nil {
		logger = log.WithField("component", "catalog")
	}
	return &Pager{source: source, cache: cache, logger: logger, metrics: m}
}

// Fetch возвращает страницу каталога для запроса q.
func (p *Pager) Fetch(ctx context.Context, token string, q Query) (Result, error) {
	term := strings.TrimSpace(q.Term)
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.Page < 1 {
		q.Page = 1
	}

	if term == "" {
		return p.fetchPaged(ctx, token, q)
	}
	return p.fetchFiltered(ctx, token, term, q)
}

// fetchPaged запрашивает одну страницу у бэкенда. Если запрошенная
// страница оказалась за последней (товары удалили), запрос повторяется
// с зажатым номером.
func (p *Pager) fetchPaged(ctx context.Context, token string, q Query) (Result, error) {
	page, err := p.source.ListProducts(ctx, token, q.Page, q.PageSize)
	if err != nil {
		return Result{}, err
	}

	totalPages := pageCount(page.TotalCount, q.PageSize)
	if q.Page > totalPages {
		q.Page = totalPages
		page, err = p.source.ListProducts(ctx, token, q.Page, q.PageSize)
		if err != nil {
			return Result{}, err
		}
		totalPages = pageCount(page.TotalCount, q.PageSize)
	}

	return Result{
		Page:       q.Page,
		TotalPages: totalPages,
		TotalCount: page.TotalCount,
		Items:      page.Items,
	}, nil
}

// fetchFiltered собирает полный снимок каталога, фильтрует его по
// подстроке и нарезает витринную страницу локально.
func (p *Pager) fetchFiltered(ctx context.Context, token, term string, q Query) (Result, error) {
	all, err := p.snapshot(ctx, token)
	if err != nil {
		return Result{}, err
	}

	matched := filterProducts(all, term)
	totalPages := pageCount(len(matched), q.PageSize)
	if q.Page > totalPages {
		q.Page = totalPages
	}

	start := (q.Page - 1) * q.PageSize
	end := start + q.PageSize
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}

	return Result{
		Term:       term,
		Page:       q.Page,
		TotalPages: totalPages,
		TotalCount: len(matched),
		Items:      matched[start:end],
	}, nil
}

// Product ищет товар по id в полном снимке каталога.
func (p *Pager) Product(ctx context.Context, token string, productID int64) (domain.Product, error) {
	all, err := p.snapshot(ctx, token)
	if err != nil {
		return domain.Product{}, err
	}
	for _, product := range all {
		if product.ProductID == productID {
			return product, nil
		}
	}
	return domain.Product{}, domain.ErrProductNotFound
}

// snapshot возвращает полный каталог: из кэша, если снимок ещё жив,
// иначе обходом бэкенда.
func (p *Pager) snapshot(ctx context.Context, token string) ([]domain.Product, error) {
	if p.cache != nil {
		if products, ok := p.cache.GetSnapshot(ctx); ok {
			return products, nil
		}
	}

	products, err := p.scanAll(ctx, token)
	if err != nil {
		return nil, err
	}
	if p.cache != nil {
		p.cache.SetSnapshot(ctx, products)
	}
	return products, nil
}

// scanAll обходит каталог страницами scanPageSize, накапливая товары
// с дедупликацией по ProductID. Обход останавливается, когда накоплено
// не меньше заявленного totalCount, пришла пустая страница или страница
// не принесла ни одного нового товара. Последние два условия защищают
// от бесконечного цикла, если бэкенд игнорирует пагинацию или врёт
// про totalCount.
func (p *Pager) scanAll(ctx context.Context, token string) ([]domain.Product, error) {
	var (
		all   []domain.Product
		seen  = make(map[int64]bool)
		total = -1
		pages = 0
	)

	for pageNum := 1; ; pageNum++ {
		page, err := p.source.ListProducts(ctx, token, pageNum, scanPageSize)
		if err != nil {
			return nil, err
		}
		pages++

		if total < 0 && page.TotalCount > 0 {
			total = page.TotalCount
		}

		fresh := 0
		for _, item := range page.Items {
			if seen[item.ProductID] {
				continue
			}
			seen[item.ProductID] = true
			all = append(all, item)
			fresh++
		}

		if len(page.Items) == 0 || fresh == 0 {
			break
		}
		if total >= 0 && len(all) >= total {
			break
		}
	}

	p.metrics.RecordCatalogScan(pages)
	p.logger.WithField("pages", pages).WithField("products", len(all)).
		Debug("catalog scan complete")
	return all, nil
}

// filterProducts отбирает товары, содержащие term в названии или
// описании без учёта регистра.
func filterProducts(products []domain.Product, term string) []domain.Product {
	needle := strings.ToLower(term)
	matched := make([]domain.Product, 0, len(products))
	for _, product := range products {
		if strings.Contains(strings.ToLower(product.ProductName), needle) ||
			strings.Contains(strings.ToLower(product.Description), needle) {
			matched = append(matched, product)
		}
	}
	return matched
}

// pageCount возвращает число страниц; минимум одна, даже для пустого
// результата.
func pageCount(total, pageSize int) int {
	if total <= 0 {
		return 1
	}
	pages := (total + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}
