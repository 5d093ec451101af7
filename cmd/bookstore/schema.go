package main

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	relay "github.com/tidegraph/tide/internal/relay"
	schema "github.com/tidegraph/tide/internal/schema"
	value "github.com/tidegraph/tide/internal/value"
)

const defaultPageSize = 10

// buildSchema wires the bookstore type graph over the store. Book and Author
// reference each other, so both are created first and get their fields after.
func buildSchema(s *store) *schema.Schema {
	formatType := schema.NewEnum("BookFormat", "Physical or digital format of a book.").
		AddEnumValue(schema.NewEnumValue("HARDCOVER", "")).
		AddEnumValue(schema.NewEnumValue("PAPERBACK", "")).
		AddEnumValue(schema.NewEnumValue("EBOOK", ""))

	bookType := schema.NewObject("Book", "A book in the catalog.")
	authorType := schema.NewObject("Author", "A person who wrote at least one book.")

	bookType.
		AddField(schema.NewField("id", "", schema.NewNonNull(schema.IDType()), nil)).
		AddField(schema.NewField("title", "", schema.NewNonNull(schema.StringType()), nil)).
		AddField(schema.NewField("format", "", schema.NewNonNull(formatType), nil)).
		AddField(schema.NewField("year", "Year of first publication.", schema.IntType(), nil)).
		AddField(schema.NewField("author", "", schema.NewNonNull(authorType), func(ctx schema.Context) (value.Value, error) {
			id, err := dataID(ctx, "authorId")
			if err != nil {
				return value.Null(), err
			}
			a, err := s.authorByID(ctx.Ctx, id)
			if err != nil {
				return value.Null(), err
			}
			if a == nil {
				return value.Null(), fmt.Errorf("author %d not found", id)
			}
			return authorValue(*a), nil
		}))

	authorType.
		AddField(schema.NewField("id", "", schema.NewNonNull(schema.IDType()), nil)).
		AddField(schema.NewField("name", "", schema.NewNonNull(schema.StringType()), nil)).
		AddField(schema.NewField("books", "All books by this author.", schema.NewList(schema.NewNonNull(bookType)), func(ctx schema.Context) (value.Value, error) {
			id, err := dataID(ctx, "id")
			if err != nil {
				return value.Null(), err
			}
			books, err := s.booksByAuthor(ctx.Ctx, id)
			if err != nil {
				return value.Null(), err
			}
			items := make([]value.Value, len(books))
			for i, b := range books {
				items[i] = bookValue(b)
			}
			return value.List(items...), nil
		}))

	searchResultType := schema.NewUnion("SearchResult", "A book or an author matching a search.", func(ctx schema.Context) string {
		if ctx.Data != nil {
			if _, ok := ctx.Data.Get("title"); ok {
				return "Book"
			}
		}
		return "Author"
	}).
		AddPossibleType(bookType).
		AddPossibleType(authorType)

	filterType := schema.NewInputObject("BookFilter", "Criteria narrowing a book listing.").
		AddInputField(schema.NewInputValue("format", "", formatType))

	connectionType := relay.ConnectionType(bookType)

	queryType := schema.NewObject("Query", "").
		AddField(schema.NewField("book", "Look up one book by ID.", bookType, func(ctx schema.Context) (value.Value, error) {
			id, err := argID(ctx, "id")
			if err != nil {
				return value.Null(), err
			}
			b, err := s.bookByID(ctx.Ctx, id)
			if err != nil || b == nil {
				return value.Null(), err
			}
			return bookValue(*b), nil
		}).AddArgument(schema.NewInputValue("id", "", schema.NewNonNull(schema.IDType())))).
		AddField(schema.NewField("author", "Look up one author by ID.", authorType, func(ctx schema.Context) (value.Value, error) {
			id, err := argID(ctx, "id")
			if err != nil {
				return value.Null(), err
			}
			a, err := s.authorByID(ctx.Ctx, id)
			if err != nil || a == nil {
				return value.Null(), err
			}
			return authorValue(*a), nil
		}).AddArgument(schema.NewInputValue("id", "", schema.NewNonNull(schema.IDType())))).
		AddField(schema.NewField("books", "Paginate the catalog in ID order.", schema.NewNonNull(connectionType), func(ctx schema.Context) (value.Value, error) {
			return resolveBooks(ctx, s)
		}).
			AddArgument(schema.NewInputValue("first", "", schema.IntType())).
			AddArgument(schema.NewInputValue("after", "", schema.StringType())).
			AddArgument(schema.NewInputValue("filter", "", filterType))).
		AddField(schema.NewField("search", "Find books and authors by name.", schema.NewList(schema.NewNonNull(searchResultType)), func(ctx schema.Context) (value.Value, error) {
			term, ok := ctx.Args["term"]
			if !ok || term.Kind != value.KindString {
				return value.Null(), fmt.Errorf("search requires a 'term' argument")
			}
			books, authors, err := s.search(ctx.Ctx, term.Str)
			if err != nil {
				return value.Null(), err
			}
			var items []value.Value
			for _, b := range books {
				items = append(items, bookValue(b))
			}
			for _, a := range authors {
				items = append(items, authorValue(a))
			}
			return value.List(items...), nil
		}).AddArgument(schema.NewInputValue("term", "", schema.NewNonNull(schema.StringType()))))

	mutationType := schema.NewObject("Mutation", "").
		AddField(schema.NewField("addBook", "Add a book to the catalog.", bookType, func(ctx schema.Context) (value.Value, error) {
			title, ok := ctx.Args["title"]
			if !ok || title.Kind != value.KindString || title.Str == "" {
				return value.Null(), fmt.Errorf("addBook requires a non-empty 'title'")
			}
			authorID, err := argID(ctx, "authorId")
			if err != nil {
				return value.Null(), err
			}
			format := "PAPERBACK"
			if f, ok := ctx.Args["format"]; ok && f.Kind == value.KindEnum {
				format = f.Str
			}
			var year int64
			if y, ok := ctx.Args["year"]; ok && y.Kind == value.KindInt {
				year = y.Int
			}
			b, err := s.addBook(ctx.Ctx, title.Str, authorID, format, year)
			if err != nil {
				return value.Null(), err
			}
			return bookValue(*b), nil
		}).
			AddArgument(schema.NewInputValue("title", "", schema.NewNonNull(schema.StringType()))).
			AddArgument(schema.NewInputValue("authorId", "", schema.NewNonNull(schema.IDType()))).
			AddArgument(schema.NewInputValue("format", "", formatType)).
			AddArgument(schema.NewInputValue("year", "", schema.IntType())))

	return schema.NewSchema(queryType).SetMutation(mutationType)
}

func resolveBooks(ctx schema.Context, s *store) (value.Value, error) {
	limit := defaultPageSize
	if f, ok := ctx.Args["first"]; ok && f.Kind == value.KindInt && f.Int > 0 {
		limit = int(f.Int)
	}
	var after int64
	if a, ok := ctx.Args["after"]; ok && a.Kind == value.KindString {
		id, err := decodeCursor(a.Str)
		if err != nil {
			return value.Null(), err
		}
		after = id
	}
	format := ""
	if f, ok := ctx.Args["filter"]; ok && f.Kind == value.KindObject {
		if fv, ok := f.Get("format"); ok && fv.Kind == value.KindEnum {
			format = fv.Str
		}
	}

	books, err := s.booksAfter(ctx.Ctx, after, limit, format)
	if err != nil {
		return value.Null(), err
	}
	hasNext := len(books) > limit
	if hasNext {
		books = books[:limit]
	}

	edges := make([]value.Value, len(books))
	info := relay.PageInfo{HasNextPage: hasNext, HasPreviousPage: after > 0}
	for i, b := range books {
		cursor := encodeCursor(b.ID)
		edges[i] = relay.EdgeValue(bookValue(b), cursor)
		if i == 0 {
			info.StartCursor = cursor
		}
		info.EndCursor = cursor
	}
	return relay.ConnectionValue(edges, info), nil
}

func bookValue(b book) value.Value {
	year := value.Null()
	if b.Year != 0 {
		year = value.Int(b.Year)
	}
	return value.Object(
		value.Field("id", value.String(strconv.FormatInt(b.ID, 10))),
		value.Field("title", value.String(b.Title)),
		value.Field("format", value.Enum(b.Format)),
		value.Field("year", year),
		value.Field("authorId", value.String(strconv.FormatInt(b.AuthorID, 10))),
	)
}

func authorValue(a author) value.Value {
	return value.Object(
		value.Field("id", value.String(strconv.FormatInt(a.ID, 10))),
		value.Field("name", value.String(a.Name)),
	)
}

// argID reads an ID argument, accepting either string or int form.
func argID(ctx schema.Context, name string) (int64, error) {
	v, ok := ctx.Args[name]
	if !ok {
		return 0, fmt.Errorf("missing '%s' argument", name)
	}
	return idFromValue(v, name)
}

// dataID reads an ID field from the parent object value.
func dataID(ctx schema.Context, name string) (int64, error) {
	if ctx.Data == nil {
		return 0, fmt.Errorf("missing parent value")
	}
	v, ok := ctx.Data.Get(name)
	if !ok {
		return 0, fmt.Errorf("missing '%s' on parent value", name)
	}
	return idFromValue(v, name)
}

func idFromValue(v value.Value, name string) (int64, error) {
	switch v.Kind {
	case value.KindInt:
		return v.Int, nil
	case value.KindString:
		id, err := strconv.ParseInt(v.Str, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid '%s': %q", name, v.Str)
		}
		return id, nil
	}
	return 0, fmt.Errorf("invalid '%s'", name)
}

func encodeCursor(id int64) string {
	return base64.StdEncoding.EncodeToString([]byte("book:" + strconv.FormatInt(id, 10)))
}

func decodeCursor(c string) (int64, error) {
	raw, err := base64.StdEncoding.DecodeString(c)
	if err != nil {
		return 0, fmt.Errorf("invalid cursor %q", c)
	}
	rest, ok := strings.CutPrefix(string(raw), "book:")
	if !ok {
		return 0, fmt.Errorf("invalid cursor %q", c)
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid cursor %q", c)
	}
	return id, nil
}
