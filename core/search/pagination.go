package search

// totalPages is ceil(total/perPage), 0 when there is nothing to page.
func totalPages(total, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

func hasNext(page, perPage, total int) bool {
	return page*perPage < total
}

func hasPrev(page int) bool {
	return page > 1
}
