package output

import (
	"fmt"
	"os"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
	urlutil "github.com/law-makers/storescrape/internal/utils/url"
	"github.com/law-makers/storescrape/pkg/models"
)

// DescriptionMarkdown converts the record's description HTML to Markdown,
// resolving relative links against the product URL
func DescriptionMarkdown(record *models.ProductRecord) (string, error) {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	converter.AddRules(md.Rule{
		Filter: []string{"a"},
		Replacement: func(content string, selec *goquery.Selection, opt *md.Options) *string {
			href, exists := selec.Attr("href")
			if !exists {
				return nil
			}

			resolved := urlutil.ResolveURL(record.URL, href)
			str := fmt.Sprintf("[%s](%s)", selec.Text(), resolved)
			return &str
		},
	})

	cleaned, err := CleanHTML(record.DescriptionHTML)
	if err != nil {
		return "", err
	}

	mdStr, err := converter.ConvertString(cleaned)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("# %s\n\n%s\n", record.Title, mdStr), nil
}

// SaveMarkdown writes the Markdown description to filepath
func SaveMarkdown(record *models.ProductRecord, filepath string) error {
	content, err := DescriptionMarkdown(record)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, []byte(content), 0644)
}
