package glossary

import publicglossary "github.com/aldo555/glossary-magic/glossary"

type (
	Category        = publicglossary.Category
	Article         = publicglossary.Article
	Term            = publicglossary.Term
	TermCategory    = publicglossary.TermCategory
	ArticleTerm     = publicglossary.ArticleTerm
	VocabularyEntry = publicglossary.VocabularyEntry
)
