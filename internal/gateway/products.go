package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"

	"github.com/vladislavdragonenkov/wholesalebox/internal/domain"
)

const (
	// Ограничения на загружаемое изображение товара; проверяются
	// до отправки, чтобы не гонять заведомо негодный файл по сети.
	maxImageSize = 2 << 20 // 2MB
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// ImageUpload — картинка товара из админской формы.
type ImageUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// ValidateImage проверяет тип и размер изображения. nil-аргумент валиден:
// картинка опциональна.
func ValidateImage(img *ImageUpload) error {
	if img == nil {
		return nil
	}
	if !allowedImageTypes[img.ContentType] {
		return domain.ErrImageType
	}
	if img.Size > maxImageSize {
		return domain.ErrImageSize
	}
	return nil
}

// ListProducts запрашивает одну страницу каталога.
// Ответ бэкенда приходит в одной из двух форм: объект {items, totalCount}
// либо голый массив с заголовком X-Total-Count — поддерживаются обе,
// так как контракт бэкенда не зафиксирован.
func (c *Client) ListProducts(ctx context.Context, token string, page, pageSize int) (domain.ProductPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("pageSize", strconv.Itoa(pageSize))

	body, header, err := c.do(ctx, call{
		op:       "GET /Products",
		method:   http.MethodGet,
		path:     "/Products",
		query:    query,
		token:    token,
		fallback: "Failed to load products",
	})
	if err != nil {
		return domain.ProductPage{}, err
	}
	return decodeProductPage(body, header)
}

// AllProducts возвращает каталог без пагинации (админский inventory-вид).
func (c *Client) AllProducts(ctx context.Context, token string) ([]domain.Product, error) {
	body, header, err := c.do(ctx, call{
		op:       "GET /Products",
		method:   http.MethodGet,
		path:     "/Products",
		token:    token,
		fallback: "Failed to load products",
	})
	if err != nil {
		return nil, err
	}
	page, err := decodeProductPage(body, header)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// CreateProduct создаёт товар (multipart-форма, опциональная картинка).
func (c *Client) CreateProduct(ctx context.Context, token string, draft domain.ProductDraft, image *ImageUpload) error {
	return c.saveProduct(ctx, call{
		op:       "POST /Products",
		method:   http.MethodPost,
		path:     "/Products",
		token:    token,
		fallback: "Failed to save product",
	}, draft, image)
}

// UpdateProduct обновляет товар по id той же multipart-формой.
func (c *Client) UpdateProduct(ctx context.Context, token string, productID int64, draft domain.ProductDraft, image *ImageUpload) error {
	return c.saveProduct(ctx, call{
		op:       "PUT /Products/{id}",
		method:   http.MethodPut,
		path:     fmt.Sprintf("/Products/%d", productID),
		token:    token,
		fallback: "Failed to save product",
	}, draft, image)
}

// DeleteProduct удаляет товар из каталога.
func (c *Client) DeleteProduct(ctx context.Context, token string, productID int64) error {
	_, _, err := c.do(ctx, call{
		op:       "DELETE /Products/{id}",
		method:   http.MethodDelete,
		path:     fmt.Sprintf("/Products/%d", productID),
		token:    token,
		fallback: "Delete failed",
	})
	return err
}

func (c *Client) saveProduct(ctx context.Context, req call, draft domain.ProductDraft, image *ImageUpload) error {
	if errs := draft.ValidateInvariants(); len(errs) > 0 {
		return errs[0]
	}
	if err := ValidateImage(image); err != nil {
		return err
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fields := map[string]string{
		"ProductName":   draft.ProductName,
		"Description":   draft.Description,
		"Price":         strconv.FormatFloat(draft.Price, 'f', -1, 64),
		"StockQuantity": strconv.Itoa(draft.StockQuantity),
		"Unit":          draft.Unit,
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return fmt.Errorf("%s: write field %s: %w", req.op, name, err)
		}
	}

	switch {
	case image != nil:
		part, err := writer.CreatePart(imagePartHeader(image))
		if err != nil {
			return fmt.Errorf("%s: create image part: %w", req.op, err)
		}
		if _, err := io.Copy(part, image.Reader); err != nil {
			return fmt.Errorf("%s: copy image: %w", req.op, err)
		}
	case draft.ImageURL != "":
		if err := writer.WriteField("ImageUrl", draft.ImageURL); err != nil {
			return fmt.Errorf("%s: write image url: %w", req.op, err)
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("%s: finalize form: %w", req.op, err)
	}

	req.body = &buf
	req.contentType = writer.FormDataContentType()
	_, _, err := c.do(ctx, req)
	return err
}

func imagePartHeader(image *ImageUpload) textproto.MIMEHeader {
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, image.FileName))
	h.Set("Content-Type", image.ContentType)
	return h
}

// decodeProductPage принимает обе формы ответа листинга.
// Если серверный totalCount отсутствует или не парсится, считаем,
// что страница и есть весь результат.
func decodeProductPage(body []byte, header http.Header) (domain.ProductPage, error) {
	trimmed := strings.TrimSpace(string(body))

	if strings.HasPrefix(trimmed, "[") {
		var items []domain.Product
		if err := json.Unmarshal(body, &items); err != nil {
			return domain.ProductPage{}, fmt.Errorf("decode product array: %w", err)
		}
		total := len(items)
		if raw := header.Get("X-Total-Count"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil {
				total = parsed
			}
		}
		return domain.ProductPage{Items: items, TotalCount: total}, nil
	}

	var page domain.ProductPage
	if err := json.Unmarshal(body, &page); err != nil {
		return domain.ProductPage{}, fmt.Errorf("decode product page: %w", err)
	}
	if page.Items == nil {
		page.Items = []domain.Product{}
	}
	if page.TotalCount == 0 && len(page.Items) > 0 {
		page.TotalCount = len(page.Items)
	}
	return page, nil
}
