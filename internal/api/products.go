package api

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/pricetrack/pricetrack-tui/internal/models"
)

// ListQuery is the full set of listing parameters. Zero values are omitted
// from the encoded query so the backend's defaults apply.
type ListQuery struct {
	Q        string
	Site     string
	Page     int
	PerPage  int
	OrderBy  string
	Reversed bool
}

// Values encodes the query for the listing endpoint.
func (q ListQuery) Values() url.Values {
	v := url.Values{}
	if q.Q != "" {
		v.Set("q", q.Q)
	}
	if q.Site != "" {
		v.Set("site", q.Site)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(q.PerPage))
	}
	if q.OrderBy != "" {
		v.Set("order_by", q.OrderBy)
		v.Set("reversed", strconv.FormatBool(q.Reversed))
	}
	return v
}

// ListProducts fetches one page of the product listing.
func (c *Client) ListProducts(q ListQuery) (*models.ProductPage, error) {
	var page models.ProductPage
	if err := c.getJSON("/products", q.Values(), &page); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return &page, nil
}

// GetProduct fetches a single product. A missing product returns a nil
// product and a nil error; callers show their own not-found view.
func (c *Client) GetProduct(id int) (*models.Product, error) {
	var p models.Product
	err := c.getJSON("/products/"+strconv.Itoa(id), nil, &p)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return &p, nil
}

// GetHistory fetches the full price history of a product, oldest capture
// first as the backend orders it.
func (c *Client) GetHistory(id int) ([]models.PricePoint, error) {
	var history []models.PricePoint
	if err := c.getJSON("/products/"+strconv.Itoa(id)+"/history", nil, &history); err != nil {
		return nil, fmt.Errorf("failed to get history for product %d: %w", id, err)
	}
	return history, nil
}

// TotalProducts returns the unfiltered product count.
func (c *Client) TotalProducts() (int, error) {
	var out struct {
		Total int `json:"total"`
	}
	if err := c.getJSON("/total_products", nil, &out); err != nil {
		return 0, fmt.Errorf("failed to get product count: %w", err)
	}
	return out.Total, nil
}

// idList is the {"numbers": [...]} body shared by the bulk endpoints.
type idList struct {
	Numbers []int `json:"numbers"`
}

// DeleteProducts removes the given products and returns how many rows the
// backend actually deleted.
func (c *Client) DeleteProducts(ids []int) (int, error) {
	var a ack
	if err := c.postJSON("/products/bulk_delete", nil, idList{Numbers: ids}, &a); err != nil {
		return 0, fmt.Errorf("failed to delete products: %w", err)
	}
	if err := a.err("delete rejected"); err != nil {
		return 0, err
	}
	return a.Deleted, nil
}

// AddWatch enables price tracking for the given products. The alert ceiling
// is set separately through SetNotifyPrice.
func (c *Client) AddWatch(ids []int) error {
	var a ack
	if err := c.postJSON("/add_watch_products", nil, idList{Numbers: ids}, &a); err != nil {
		return fmt.Errorf("failed to track products: %w", err)
	}
	return a.err("track rejected")
}

// DeleteWatch disables price tracking for the given products.
func (c *Client) DeleteWatch(ids []int) error {
	var a ack
	if err := c.postJSON("/delete_watch_products", nil, idList{Numbers: ids}, &a); err != nil {
		return fmt.Errorf("failed to untrack products: %w", err)
	}
	return a.err("untrack rejected")
}

// IsTracked reports the tracking state of one product.
func (c *Client) IsTracked(id int) (models.TrackState, error) {
	v := url.Values{}
	v.Set("id", strconv.Itoa(id))
	var st models.TrackState
	if err := c.getJSON("/is_product_tracked", v, &st); err != nil {
		return models.TrackState{}, fmt.Errorf("failed to get track state for product %d: %w", id, err)
	}
	return st, nil
}

// ImageURL returns the address of a product's image on the backend. The
// image itself is never fetched; a terminal cannot show it, but the link is
// still useful.
func (c *Client) ImageURL(id int) string {
	return fmt.Sprintf("%s/product_image?product_id=%d", c.baseURL, id)
}

// SetNotifyPrice updates the alert ceiling for a tracked product.
func (c *Client) SetNotifyPrice(id, price int) error {
	v := url.Values{}
	v.Set("id", strconv.Itoa(id))
	v.Set("new_max_price", strconv.Itoa(price))
	var a ack
	if err := c.postJSON("/set_notify_price", v, nil, &a); err != nil {
		return fmt.Errorf("failed to set notify price: %w", err)
	}
	return a.err("notify price rejected")
}

// DeleteDatabase wipes every product and price capture on the backend.
func (c *Client) DeleteDatabase() error {
	var a ack
	if err := c.postJSON("/delete_db", nil, nil, &a); err != nil {
		return fmt.Errorf("failed to delete database: %w", err)
	}
	return a.err("database delete rejected")
}
