package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/url"

	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductViewHandler renders the server-side HTML catalog pages.
type ProductViewHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductViewHandler creates a new ProductViewHandler.
func NewProductViewHandler(service *services.ProductService) *ProductViewHandler {
	return &ProductViewHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the view routes with the Fiber app.
func (h *ProductViewHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/products/main", h.HandleCatalog)
	router.Get("/products/new", h.HandleNewForm)
	router.Get("/products/edit/:id", h.HandleEditForm)
	router.Post("/products", h.HandleSaveProduct)
	router.Post("/products/delete/:id", h.HandleDeleteProduct)
}

// productForm binds the create/update form. An empty id means create.
type productForm struct {
	ID          uint    `form:"id"`
	Name        string  `form:"name" validate:"required,max=255"`
	Description string  `form:"description" validate:"omitempty,max=1000"`
	Price       float64 `form:"price" validate:"required,gt=0"`
}

// HandleCatalog renders the main catalog page, with optional search
// parameters carried through to the search form.
func (h *ProductViewHandler) HandleCatalog(c *fiber.Ctx) error {
	// Unparseable price bounds from hand-edited URLs are treated as absent.
	minPrice, _ := parseOptionalFloat(c.Query("minPrice"))
	maxPrice, _ := parseOptionalFloat(c.Query("maxPrice"))
	searchQuery := c.Query("searchQuery")

	products, err := h.service.SearchProducts(searchQuery, minPrice, maxPrice)
	if err != nil {
		log.Printf("Error loading catalog: %v", err)
		return c.Status(fiber.StatusInternalServerError).Render("error", fiber.Map{
			"Message": "Could not load the product catalog.",
		})
	}

	return c.Render("product-main", fiber.Map{
		"Products":    products,
		"SearchQuery": searchQuery,
		"MinPrice":    c.Query("minPrice"),
		"MaxPrice":    c.Query("maxPrice"),
		"Error":       c.Query("error"),
	})
}

// HandleNewForm renders an empty product form.
func (h *ProductViewHandler) HandleNewForm(c *fiber.Ctx) error {
	return c.Render("product-form", fiber.Map{
		"Product": models.Product{},
	})
}

// HandleEditForm renders the form pre-filled with an existing product.
func (h *ProductViewHandler) HandleEditForm(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return redirectWithError(c, "Invalid product ID.")
	}

	product, err := h.service.GetProductByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return redirectWithError(c, fmt.Sprintf("Product with ID %d not found.", id))
		}
		log.Printf("Error loading product %d for edit: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).Render("error", fiber.Map{
			"Message": "Could not load the product.",
		})
	}

	return c.Render("product-form", fiber.Map{
		"Product": product,
	})
}

// HandleSaveProduct creates or updates a product from the submitted form and
// redirects back to the catalog. Validation failures redisplay the form.
func (h *ProductViewHandler) HandleSaveProduct(c *fiber.Ctx) error {
	var form productForm
	if err := c.BodyParser(&form); err != nil {
		log.Printf("Error parsing product form: %v", err)
		return redirectWithError(c, "Invalid form submission.")
	}

	product := models.Product{
		ID:          form.ID,
		Name:        form.Name,
		Description: form.Description,
		Price:       form.Price,
	}

	if err := h.validate.Struct(form); err != nil {
		return c.Status(fiber.StatusBadRequest).Render("product-form", fiber.Map{
			"Product": product,
			"Errors":  validationErrorMessages(err),
		})
	}

	if form.ID == 0 {
		err := h.service.CreateProduct(&product)
		if err != nil {
			log.Printf("Error creating product from form: %v", err)
			return c.Status(fiber.StatusInternalServerError).Render("error", fiber.Map{
				"Message": "Could not save the product.",
			})
		}
	} else {
		err := h.service.UpdateProduct(&product)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return redirectWithError(c, fmt.Sprintf("Product with ID %d not found.", form.ID))
			}
			log.Printf("Error updating product %d from form: %v", form.ID, err)
			return c.Status(fiber.StatusInternalServerError).Render("error", fiber.Map{
				"Message": "Could not save the product.",
			})
		}
	}

	return c.Redirect("/products/main", fiber.StatusFound)
}

// HandleDeleteProduct deletes a product and redirects back to the catalog.
func (h *ProductViewHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return redirectWithError(c, "Invalid product ID.")
	}

	if err := h.service.DeleteProduct(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return redirectWithError(c, fmt.Sprintf("Product with ID %d not found.", id))
		}
		log.Printf("Error deleting product %d from view: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).Render("error", fiber.Map{
			"Message": "Could not delete the product.",
		})
	}

	return c.Redirect("/products/main", fiber.StatusFound)
}

// redirectWithError sends the browser back to the catalog page with an
// error message in the query string.
func redirectWithError(c *fiber.Ctx, message string) error {
	return c.Redirect("/products/main?error="+url.QueryEscape(message), fiber.StatusFound)
}
