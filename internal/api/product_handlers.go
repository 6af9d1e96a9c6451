package api

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/flosch/pongo2/v6"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/kidsparadise/kp-erp/internal/apierrors"
	"github.com/kidsparadise/kp-erp/internal/woo"
)

// ProductList renders the catalog page: paginated, filterable by status and
// stock status, searchable by name or exact SKU.
func (h *Handlers) ProductList(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	if page < 1 {
		page = 1
	}
	q := woo.ProductsQuery{
		Page:        page,
		Status:      c.Query("status"),
		StockStatus: c.Query("stock_status"),
		Search:      c.Query("search"),
	}

	result, err := h.store.Products(c.Request.Context(), q)
	if err != nil {
		log.Printf("products: list: %v", err)
		result = &woo.ProductPage{Page: page}
	}

	h.renderer.HTML(c, http.StatusOK, "pages/products.html", pongo2.Context{
		"Title":       "Products",
		"Products":    result.Products,
		"Page":        result.Page,
		"TotalPages":  result.TotalPages,
		"Total":       result.Total,
		"PrevPage":    result.Page - 1,
		"NextPage":    result.Page + 1,
		"Search":      q.Search,
		"Status":      q.Status,
		"StockStatus": q.StockStatus,
	})
}

// ProductEditPage renders the edit form for a single product.
func (h *Handlers) ProductEditPage(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	product, err := h.store.Product(c.Request.Context(), id)
	if err != nil {
		log.Printf("products: fetch %d: %v", id, err)
		apierrors.Error(c, apierrors.CodeCatalogUnavailable)
		return
	}
	if product == nil {
		apierrors.Error(c, apierrors.CodeProductNotFound)
		return
	}

	h.renderer.HTML(c, http.StatusOK, "pages/product_edit.html", pongo2.Context{
		"Title":   "Edit Product",
		"Product": product,
	})
}

// ProductUpdate applies the submitted edit form. The form exposes the sale
// price as "price"; the store only accepts writes through regular_price.
func (h *Handlers) ProductUpdate(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	update := woo.ProductUpdate{
		Name:         c.PostForm("name"),
		SKU:          c.PostForm("sku"),
		RegularPrice: c.PostForm("price"),
	}
	if raw := c.PostForm("stock_quantity"); raw != "" {
		qty, err := strconv.Atoi(raw)
		if err != nil {
			apierrors.Error(c, apierrors.CodeInvalidRequest)
			return
		}
		manage := true
		update.StockQuantity = &qty
		update.ManageStock = &manage
	}

	if _, err := h.store.UpdateProduct(c.Request.Context(), id, update); err != nil {
		log.Printf("products: update %d: %v", id, err)
		apierrors.Error(c, apierrors.CodeUpdateFailed)
		return
	}
	c.Redirect(http.StatusSeeOther, "/products")
}

var productExportHeader = []string{"ID", "Name", "SKU", "Price", "Stock", "Status", "Total Sales"}

func productExportRow(p *woo.Product) []string {
	stock := ""
	if p.StockQuantity != nil {
		stock = strconv.Itoa(*p.StockQuantity)
	}
	return []string{
		strconv.FormatInt(p.ID, 10),
		p.Name,
		p.SKU,
		p.Price,
		stock,
		p.Status,
		strconv.Itoa(p.TotalSales),
	}
}

// WriteProductsCSV writes the catalog export as CSV. Shared between the
// download route and the command line exporter.
func WriteProductsCSV(w io.Writer, products []woo.Product) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(productExportHeader); err != nil {
		return err
	}
	for i := range products {
		if err := cw.Write(productExportRow(&products[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteProductsXLSX writes the catalog export as an Excel workbook.
func WriteProductsXLSX(w io.Writer, products []woo.Product) error {
	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Products"
	f.SetSheetName("Sheet1", sheet)

	header := make([]any, len(productExportHeader))
	for i, h := range productExportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i := range products {
		row := productExportRow(&products[i])
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return err
		}
	}
	return f.Write(w)
}

// ProductExportCSV streams the full catalog as CSV.
func (h *Handlers) ProductExportCSV(c *gin.Context) {
	products, err := h.store.AllProducts(c.Request.Context())
	if err != nil {
		log.Printf("products: export csv: %v", err)
		apierrors.Error(c, apierrors.CodeExportFailed)
		return
	}

	filename := fmt.Sprintf("products-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := WriteProductsCSV(c.Writer, products); err != nil {
		log.Printf("products: export csv write: %v", err)
	}
}

// ProductExportXLSX streams the full catalog as an Excel workbook.
func (h *Handlers) ProductExportXLSX(c *gin.Context) {
	products, err := h.store.AllProducts(c.Request.Context())
	if err != nil {
		log.Printf("products: export xlsx: %v", err)
		apierrors.Error(c, apierrors.CodeExportFailed)
		return
	}

	filename := fmt.Sprintf("products-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := WriteProductsXLSX(c.Writer, products); err != nil {
		log.Printf("products: export xlsx write: %v", err)
	}
}
