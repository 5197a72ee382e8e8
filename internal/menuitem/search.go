package menuitem

// SearchMapping is the Elasticsearch index mapping for menu items.
const SearchMapping = `{
	"mappings": {
		"properties": {
			"name": { "type": "text" },
			"description": { "type": "text" },
			"description2": { "type": "text" },
			"category": { "type": "keyword" },
			"mainCategoryId": { "type": "keyword" },
			"subCategoryId": { "type": "keyword" },
			"price": { "type": "double" },
			"createdAt": { "type": "date" }
		}
	}
}`
