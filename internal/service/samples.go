package service

import "quickcart/internal/model"

// Catálogo de ejemplo para desarrollo cuando no hay backend ni caché.
var (
	sampleCategories = []model.Category{
		{ID: "1", Name: "Fruits & Vegetables", DisplayOrder: 1},
		{ID: "2", Name: "Dairy & Bakery", DisplayOrder: 2},
		{ID: "3", Name: "Snacks & Beverages", DisplayOrder: 3},
	}

	sampleProducts = []model.Product{
		{ID: "101", Name: "Bananas", CategoryID: "1", Price: model.NumberOf(40), MRP: model.NumberOf(50), Unit: "1 dozen", Position: 1},
		{ID: "102", Name: "Tomatoes", CategoryID: "1", Price: model.NumberOf(30), MRP: model.NumberOf(35), Unit: "500 g", Position: 2},
		{ID: "201", Name: "Toned Milk", CategoryID: "2", Price: model.NumberOf(27), MRP: model.NumberOf(27), Unit: "500 ml", Position: 1},
		{ID: "202", Name: "Brown Bread", CategoryID: "2", Price: model.NumberOf(45), MRP: model.NumberOf(50), Unit: "400 g", Position: 2},
		{ID: "301", Name: "Potato Chips", CategoryID: "3", Price: model.NumberOf(20), MRP: model.NumberOf(20), Unit: "52 g", Position: 1},
	}

	sampleOffers = []model.Offer{
		{ID: "1", Name: "Free delivery above 99", Code: "FREEDEL", Discount: model.NumberOf(0), Position: 1},
	}

	sampleBanners = []model.Banner{
		{ID: "1", Name: "Fresh fruits", Image: "/static/banners/fruits.jpg", Link: "/catalog/products?category=1", Position: 1},
	}
)
