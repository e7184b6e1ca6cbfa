package outreach

import (
	"fmt"
	"strings"
)

type Message struct {
	Subject string
	Body    string
	SMS     string
}

// Composer builds outreach copy for a shop based on its ordering posture.
type Composer struct {
	Brand string
}

func New(brand string) Composer {
	brand = strings.TrimSpace(brand)
	if brand == "" {
		brand = "Slice"
	}
	return Composer{Brand: brand}
}

// Compose picks one of three pitches: no website, website without direct
// ordering, or direct ordering already in place.
func (c Composer) Compose(name string, hasWebsite, direct bool) Message {
	brand := c.Brand
	if brand == "" {
		brand = "Slice"
	}
	salutation := fmt.Sprintf("Hi %s,", name)

	switch {
	case !hasWebsite:
		return Message{
			Subject: "Grow your pizzeria with a custom website and phone ordering",
			Body: salutation + "\n\n" +
				"I noticed your pizzeria doesn't have a website listed online. " +
				fmt.Sprintf("With %s, you can get a tailor-made website and a phone ordering ", brand) +
				"solution that puts you in control of your customer relationships. " +
				"Our platform even offers discounted delivery and a pizzeria-specific POS system to help you run your business more smoothly.",
			SMS: fmt.Sprintf("%s: We can build you a custom website and phone ordering solution through %s, "+
				"plus discounted delivery and a POS built for pizzerias.", name, brand),
		}
	case !direct:
		return Message{
			Subject: "Boost profits with direct ordering and discounted delivery",
			Body: salutation + "\n\n" +
				"It looks like your current website relies on third-party ordering apps. " +
				fmt.Sprintf("%s lets you own the entire ordering experience with direct online and phone ordering. ", brand) +
				"We provide integrated discounted delivery and a POS designed specifically for independent pizzerias, so you keep more margin and delight your customers.",
			SMS: fmt.Sprintf("%s: Let's get you off third-party apps. %s offers direct online/phone ordering "+
				"with discounted delivery and a pizzeria-specific POS.", name, brand),
		}
	default:
		return Message{
			Subject: fmt.Sprintf("Take your online presence further with %s's marketing & POS", brand),
			Body: salutation + "\n\n" +
				fmt.Sprintf("Great job having your own direct ordering! %s can help you go even further ", brand) +
				"with advanced advertising services, a powerful owner's app, and a POS built for pizzerias. " +
				"We also host pizzeria-owner events and provide industry reports to help you stay ahead.",
			SMS: fmt.Sprintf("%s: You're already direct, so let's accelerate growth. %s offers marketing, "+
				"a custom POS, and owner resources just for pizzerias.", name, brand),
		}
	}
}
