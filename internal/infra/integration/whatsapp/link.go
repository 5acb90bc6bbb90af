package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/xavierca1/autoleads/internal/entity"
)

const (
	BaseLinkURL = "https://wa.me/"

	CivilityPlaceholder = "Madame/Monsieur"
	NamePlaceholder     = "[Votre Nom]"

	ShowcaseSite  = "orientalfrag.com"
	PortfolioSite = "biound.netlify.app"
)

const messageTemplate = `Bonjour %[1]s, je viens de voir passer votre pub sur Facebook, vos %[2]s ont l'air top ! 🔥
Par contre, je sais qu'avec ce type de produits, vos messages sont inondés de questions comme "c'est combien ?" et de "Je vous reviens" qui ne mènent à rien... C'est épuisant.
Et gérer les commandes manuellement c'est dommage, car ça ne reflète pas le standing de vos produits.
Je suis %[3]s %[4]s, j'aide les ecommercants à automatiser leurs ventes et commandes pour filtrer les curieux sur WhatsApp, mettre fin au fameux 'je vous reviens' et multiplier leurs ventes.
Aujourd'hui, nous offrons aux entreprises locales la même puissance de frappe et le même prestige que des grands groupes et des multinationales en leur créant des sites internet pour les aider à faire plus de ventes et dominer leur marché.
Mon métier, c'est simplement de vous créer une vitrine digitale d'exception qui : 1️⃣ Impose immédiatement le respect et la confiance (image de marque forte). 2️⃣ Filtre les "blagueurs" pour ne garder que les clients sérieux.
Regardez ce niveau de finition : %[5]s (vous pouvez retrouver nos autres réalisations et nos tarifs sur %[6]s)
Ça vous dirait qu'on en discute et qu'on mette tout cela en place ?
Cordialement, %[4]s`

// ComposeMessage monta o texto de prospecção. Perfil vazio cai nos placeholders.
func ComposeMessage(lead entity.Lead, profile entity.UserProfile) string {
	civility := string(profile.Civility)
	if civility == "" {
		civility = CivilityPlaceholder
	}
	name := profile.Name
	if name == "" {
		name = NamePlaceholder
	}

	return fmt.Sprintf(messageTemplate,
		lead.CompanyName,
		lead.ProductName,
		civility,
		name,
		ShowcaseSite,
		PortfolioSite,
	)
}

// BuildLink devolve o deep link wa.me com a mensagem pré-preenchida.
func BuildLink(lead entity.Lead, profile entity.UserProfile) string {
	return BaseLinkURL + lead.NormalizedPhone() + "?text=" + EncodeURIComponent(ComposeMessage(lead, profile))
}

// EncodeURIComponent escapa como o encodeURIComponent do navegador: espaço vira %20
// e os caracteres !'()* ficam literais.
func EncodeURIComponent(s string) string {
	escaped := url.QueryEscape(s)
	return componentReplacer.Replace(escaped)
}

var componentReplacer = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)
