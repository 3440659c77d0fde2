package values

import (
	"fmt"

	"github.com/doquedb-oss/doquedb-go/pkg/wire"
)

// WordCategory classifies a Word's relevance, mirroring the original's
// WordData category constants.
type WordCategory int32

const (
	CategoryUndefined        WordCategory = 0
	CategoryEssential        WordCategory = 1
	CategoryImportant        WordCategory = 2
	CategoryHelpful          WordCategory = 3
	CategoryEssentialRelated WordCategory = 4
	CategoryImportantRelated WordCategory = 5
	CategoryHelpfulRelated   WordCategory = 6
	CategoryProhibitive      WordCategory = 7
	CategoryProhibitiveRelated WordCategory = 8
)

var categoryNames = [...]string{
	"Undefined",
	"Essential",
	"Important",
	"Helpful",
	"EssentialRelated",
	"ImportantRelated",
	"HelpfulRelated",
	"Prohibitive",
	"ProhibitiveRelated",
}

// String renders the category's display name, mirroring
// WordData.__CATEGORY_STRING.
func (c WordCategory) String() string {
	if int(c) < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("Category(%d)", int32(c))
	}

	return categoryNames[c]
}

// Word is a term scored for search relevance, mirroring the original's
// WordData.
type Word struct {
	Term          string
	Language      *LanguageSet
	Category      WordCategory
	Scale         float64
	DocFrequency  int32
}

// NewWord constructs a Word with the given term and no language/category
// information set, mirroring WordData(str).
func NewWord(term string) *Word {
	return &Word{Term: term, Language: &LanguageSet{}, Category: CategoryUndefined}
}

func (w *Word) ClassID() ClassID { return ClassWord }

func (w *Word) String() string {
	if w.Category != CategoryUndefined {
		return fmt.Sprintf("%s language %s category %s scale %v df %d",
			w.Term, w.Language.String(), w.Category.String(), w.Scale, w.DocFrequency)
	}

	return fmt.Sprintf("%s scale %v", w.Term, w.Scale)
}

func (w *Word) ReadFrom(r *wire.Reader) error {
	term, err := readUTF16String(r)
	if err != nil {
		return err
	}

	language := &LanguageSet{}
	if err := language.ReadFrom(r); err != nil {
		return err
	}

	category, err := r.ReadInt32()
	if err != nil {
		return err
	}

	scale, err := r.ReadFloat64()
	if err != nil {
		return err
	}

	docFrequency, err := r.ReadInt32()
	if err != nil {
		return err
	}

	w.Term = term
	w.Language = language
	w.Category = WordCategory(category)
	w.Scale = scale
	w.DocFrequency = docFrequency
	return nil
}

func (w *Word) WriteTo(wr *wire.Writer) error {
	writeUTF16String(wr, w.Term)
	if err := w.Language.WriteTo(wr); err != nil {
		return err
	}

	wr.WriteInt32(int32(w.Category))
	wr.WriteFloat64(w.Scale)
	wr.WriteInt32(w.DocFrequency)
	return wr.Error()
}
