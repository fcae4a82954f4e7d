package handlers

// window returns the bounds [lo, hi) of the results visible for start and
// count out of n results in total.
func window(n int, start int, count int) (int, int) {
	if start >= n {
		return n, n
	}
	if count >= n-start {
		return start, n
	}
	return start, start + count
}

// pageLinks always starts with self. A single previous or next link follows
// when the page is non-empty and the results span more than one page:
// previous once the page reaches the end, next otherwise. The previous start
// is not clamped at zero.
func pageLinks(links linkBuilder, query string, n int, start int, count int, visible int) []Link {
	pageLinks := []Link{{Rel: RelSelf, Href: links.search(query, start, count)}}

	if visible == 0 || n <= count {
		return pageLinks
	}

	if count >= n-start {
		pageLinks = append(pageLinks, Link{Rel: RelPrevious, Href: links.search(query, start-count, count)})
	} else {
		pageLinks = append(pageLinks, Link{Rel: RelNext, Href: links.search(query, start+count, count)})
	}

	return pageLinks
}
