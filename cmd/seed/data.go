package main

import (
	"time"

	"github.com/angelmondragon/biowe-backend/internal/catalog"
)

const (
	productImage = "https://placehold.co/600x400.png"
	postImage    = "https://placehold.co/800x450.png"
)

func launchProducts() []catalog.Product {
	return []catalog.Product{
		{
			ID:           "1",
			Name:         "Organic Bloom Booster",
			Description:  "A potent fertilizer to enhance flowering and fruiting in your plants. Made with all-natural ingredients.",
			Price:        19.99,
			ImageSrc:     productImage,
			ImageAlt:     "Bag of Organic Bloom Booster fertilizer",
			Category:     "Fertilizers",
			DataAIHint:   "fertilizer bag",
			Availability: catalog.DefaultAvailability,
			Features:     []string{},
		},
		{
			ID:           "2",
			Name:         "Premium Potting Mix",
			Description:  "Enriched soil blend perfect for indoor and outdoor container gardening. Promotes healthy root growth.",
			Price:        12.50,
			ImageSrc:     productImage,
			ImageAlt:     "Bag of Premium Potting Mix",
			Category:     "Soils & Mixes",
			DataAIHint:   "soil bag",
			Availability: catalog.DefaultAvailability,
			Features:     []string{},
		},
		{
			ID:           "3",
			Name:         "Gardening Gloves - Heavy Duty",
			Description:  "Durable and comfortable gloves to protect your hands while gardening. Thorn-proof and water-resistant.",
			Price:        9.75,
			ImageSrc:     productImage,
			ImageAlt:     "Pair of heavy-duty gardening gloves",
			Category:     "Tools & Accessories",
			DataAIHint:   "gardening gloves",
			Availability: catalog.DefaultAvailability,
			Features:     []string{},
		},
		{
			ID:           "4",
			Name:         "Eco-Friendly Pest Control Spray",
			Description:  "Safely protect your plants from common pests without harmful chemicals. Safe for pets and pollinators.",
			Price:        15.00,
			ImageSrc:     productImage,
			ImageAlt:     "Bottle of eco-friendly pest control spray",
			Category:     "Pest Control",
			DataAIHint:   "spray bottle",
			Availability: catalog.DefaultAvailability,
			Features:     []string{},
		},
		{
			ID:           "5",
			Name:         "Heirloom Tomato Seeds",
			Description:  "A variety pack of heirloom tomato seeds for a delicious and colorful harvest. Non-GMO.",
			Price:        4.99,
			ImageSrc:     productImage,
			ImageAlt:     "Packet of heirloom tomato seeds",
			Category:     "Seeds",
			DataAIHint:   "seeds packet",
			Availability: catalog.DefaultAvailability,
			Features:     []string{},
		},
		{
			ID:           "6",
			Name:         "Self-Watering Planter Pot",
			Description:  "Stylish and functional self-watering pot, ideal for busy plant parents. Keeps soil moist for days.",
			Price:        24.99,
			ImageSrc:     productImage,
			ImageAlt:     "Self-watering planter pot",
			Category:     "Pots & Planters",
			DataAIHint:   "plant pot",
			Availability: catalog.DefaultAvailability,
			Features:     []string{},
		},
	}
}

func launchPosts() []catalog.BlogPost {
	return []catalog.BlogPost{
		{
			ID:         "1",
			Slug:       "getting-started-with-organic-gardening",
			Title:      "Getting Started with Organic Gardening: A Beginner's Guide",
			Excerpt:    "Discover the joys of organic gardening! This guide covers the basics, from soil preparation to choosing the right plants for your eco-friendly garden.",
			ImageSrc:   postImage,
			ImageAlt:   "Lush organic vegetable garden",
			DataAIHint: "organic garden",
			Date:       postDate("2024-05-15T10:00:00Z"),
			Author:     "Jane GreenThumb",
			Content: "Organic gardening is more than just a trend; it's a commitment to sustainable practices and healthier living. " +
				"This guide walks you through the essentials to start your own organic garden, no matter the size of your space.\n\n" +
				"First, understand your soil. Get a soil test to learn its pH and nutrient levels, then amend it with compost and other organic matter. " +
				"BioWe offers excellent organic compost to get you started!\n\n" +
				"Next, choose your plants wisely. Native plants and varieties suited to your climate need less watering and pest control. " +
				"Companion planting helps too: basil planted near tomatoes repels certain insects and improves tomato flavor.\n\n" +
				"Water deeply but infrequently to encourage strong roots. Morning watering lets leaves dry during the day and reduces fungal disease.\n\n" +
				"Finally, embrace natural pest control. Encourage ladybugs and lacewings, and reach for neem oil or BioWe's Eco-Friendly Pest Control Spray when pests appear. Happy gardening!",
		},
		{
			ID:         "2",
			Slug:       "top-5-fertilizers-for-vibrant-blooms",
			Title:      "Top 5 BioWe Fertilizers for Vibrant Blooms",
			Excerpt:    "Unlock the secret to stunning flowers with our top-rated organic fertilizers. Learn which BioWe product is perfect for your blooming beauties.",
			ImageSrc:   postImage,
			ImageAlt:   "Colorful flowers blooming in a garden",
			DataAIHint: "colorful flowers",
			Date:       postDate("2024-05-22T14:30:00Z"),
			Author:     "Alex Roots",
			Content: "Every gardener dreams of a profusion of vibrant blooms. The key is the right nutrition. Here are our top 5 picks:\n\n" +
				"1. BioWe Organic Bloom Booster: rich in phosphorus and potassium for abundant, long-lasting blooms.\n\n" +
				"2. BioWe All-Purpose Plant Food: a balanced feed for stronger stems and more resilient flowers.\n\n" +
				"3. BioWe Rose & Flower Care: tailored for roses and demanding flowering shrubs.\n\n" +
				"4. BioWe Liquid Seaweed Extract: trace minerals and growth hormones that act as a biostimulant.\n\n" +
				"5. BioWe Bone Meal: a natural source of phosphorus for root development and flower production.\n\n" +
				"Follow the application instructions for each product to achieve the best results.",
		},
		{
			ID:         "3",
			Slug:       "container-gardening-tips-for-small-spaces",
			Title:      "Container Gardening Magic: Tips for Small Spaces",
			Excerpt:    "No backyard? No problem! Explore creative container gardening ideas to grow your own food and flowers, even on a balcony or patio.",
			ImageSrc:   postImage,
			ImageAlt:   "Assortment of plants in pots on a balcony",
			DataAIHint: "balcony garden",
			Date:       postDate("2024-06-01T09:15:00Z"),
			Author:     "Sarah Sprouts",
			Content: "Limited outdoor space doesn't mean giving up on your gardening dreams. Containers work on balconies, patios and sunny windowsills.\n\n" +
				"Choose containers with adequate drainage holes, sized to the mature plant. BioWe offers stylish self-watering planters.\n\n" +
				"Use quality potting mix rather than garden soil, which compacts easily. BioWe Premium Potting Mix drains well while holding moisture and nutrients.\n\n" +
				"Herbs like basil, mint and rosemary thrive in pots, as do compact tomatoes, peppers and lettuce.\n\n" +
				"Container plants dry out quickly, so monitor moisture and feed regularly. Vertical planters and hanging baskets make the most of a small area.",
		},
		{
			ID:         "4",
			Slug:       "understanding-soil-health",
			Title:      "The Dirt on Soil: Understanding Soil Health for a Thriving Garden",
			Excerpt:    "Healthy soil is the foundation of a successful garden. Learn about soil composition, amendments, and how BioWe products can help improve your soil structure.",
			ImageSrc:   postImage,
			ImageAlt:   "Close up of rich, dark garden soil",
			DataAIHint: "garden soil",
			Date:       postDate("2024-06-10T11:00:00Z"),
			Author:     "Mike Gardener",
			Content: "Soil is the single most important ingredient for a flourishing garden.\n\n" +
				"It is a living ecosystem of microorganisms, fungi and earthworms that make nutrients available to plants. " +
				"Good structure allows aeration, drainage and root penetration.\n\n" +
				"Add organic matter regularly. Compost improves structure, water retention and nutrient content. " +
				"BioWe's Premium Potting Mix and Organic Bloom Booster are excellent sources of organic matter.\n\n" +
				"Mulch retains moisture, suppresses weeds and adds organic matter as it decomposes. BioWe is here to support your journey to better soil!",
		},
	}
}

func postDate(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return t
}
