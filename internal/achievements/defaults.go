package achievements

// CatalogVersion is bumped whenever DefaultDefinitions changes. Slugs are never reused.
const CatalogVersion = 3

// MetaSlug is the aggregate achievement unlocked by owning every prerequisite:
// each active NORMAL achievement that is not hidden, exclusive or seasonal.
const MetaSlug = "legend"

// DefaultDefinitions is the production catalog.
//
// Application achievements count raw approvals (MetricApplicationsApproved), so a request an
// administrator later excludes from trust still counts here. Only the trust tiers use the
// effective count.
var DefaultDefinitions = []Definition{
	// applications
	{Slug: "first_application", Name: "First Step", Description: "Submit your first help request",
		Kind: KindNormal, Category: CategoryApplications, Metric: MetricApplicationsCreated, Threshold: 1, Rarity: RarityCommon, IsActive: true},
	{Slug: "first_approved", Name: "Heard", Description: "Get your first request approved",
		Kind: KindNormal, Category: CategoryApplications, Metric: MetricApplicationsApproved, Threshold: 1, Rarity: RarityCommon, IsActive: true},
	{Slug: "approved_5", Name: "Regular", Description: "Have 5 requests approved",
		Kind: KindNormal, Category: CategoryApplications, Metric: MetricApplicationsApproved, Threshold: 5, Rarity: RarityUncommon, IsActive: true},
	{Slug: "approved_10", Name: "Established", Description: "Have 10 requests approved",
		Kind: KindNormal, Category: CategoryApplications, Metric: MetricApplicationsApproved, Threshold: 10, Rarity: RarityRare, IsActive: true},

	// community
	{Slug: "first_like", Name: "Supporter", Description: "Like a story",
		Kind: KindNormal, Category: CategoryCommunity, Metric: MetricLikesGiven, Threshold: 1, Rarity: RarityCommon, IsActive: true},
	{Slug: "likes_given_25", Name: "Cheerleader", Description: "Like 25 stories",
		Kind: KindNormal, Category: CategoryCommunity, Metric: MetricLikesGiven, Threshold: 25, Rarity: RarityUncommon, IsActive: true},
	{Slug: "likes_given_100", Name: "Heart of Gold", Description: "Like 100 stories",
		Kind: KindNormal, Category: CategoryCommunity, Metric: MetricLikesGiven, Threshold: 100, Rarity: RarityRare, IsActive: true},

	// creativity
	{Slug: "story_liked_10", Name: "Storyteller", Description: "Collect 10 likes on one story",
		Kind: KindNormal, Category: CategoryCreativity, Metric: MetricMaxLikesOnSingleItem, Threshold: 10, Rarity: RarityUncommon, IsActive: true},
	{Slug: "story_liked_50", Name: "Crowd Favourite", Description: "Collect 50 likes on one story",
		Kind: KindNormal, Category: CategoryCreativity, Metric: MetricMaxLikesOnSingleItem, Threshold: 50, Rarity: RarityEpic, IsActive: true},

	// social
	{Slug: "first_friend", Name: "Not Alone", Description: "Make your first friend",
		Kind: KindNormal, Category: CategorySocial, Metric: MetricFriendsAccepted, Threshold: 1, Rarity: RarityCommon, IsActive: true},
	{Slug: "friends_10", Name: "Circle", Description: "Have 10 friends",
		Kind: KindNormal, Category: CategorySocial, Metric: MetricFriendsAccepted, Threshold: 10, Rarity: RarityRare, IsActive: true},

	// streak
	{Slug: "streak_3", Name: "Warming Up", Description: "Log in 3 days in a row",
		Kind: KindNormal, Category: CategoryStreak, Metric: MetricLoginStreak, Threshold: 3, Rarity: RarityCommon, IsActive: true},
	{Slug: "streak_7", Name: "Week Strong", Description: "Log in 7 days in a row",
		Kind: KindNormal, Category: CategoryStreak, Metric: MetricLoginStreak, Threshold: 7, Rarity: RarityUncommon, IsActive: true},
	{Slug: "streak_30", Name: "Devoted", Description: "Log in 30 days in a row",
		Kind: KindNormal, Category: CategoryStreak, Metric: MetricLoginStreak, Threshold: 30, Rarity: RarityEpic, IsActive: true},

	// games
	{Slug: "first_game", Name: "Player One", Description: "Play a mini game",
		Kind: KindNormal, Category: CategoryGames, Metric: MetricGamePlays, Threshold: 1, Rarity: RarityCommon, IsActive: true},
	{Slug: "games_50", Name: "Arcade Regular", Description: "Play 50 mini games",
		Kind: KindNormal, Category: CategoryGames, Metric: MetricGamePlays, Threshold: 50, Rarity: RarityRare, IsActive: true},
	{Slug: "games_500", Name: "No Life", Description: "Play 500 mini games",
		Kind: KindNormal, Category: CategoryGames, Metric: MetricGamePlays, Threshold: 500, Rarity: RarityLegendary, IsActive: true, IsHidden: true},

	// special
	{Slug: "early_adopter", Name: "Early Adopter", Description: "One of the first 100 members",
		Kind: KindNormal, Category: CategorySpecial, Rarity: RarityLegendary, IsActive: true, IsExclusive: true},
	{Slug: "winter_helper", Name: "Winter Helper", Description: "Like a story during the winter drive",
		Kind: KindNormal, Category: CategorySpecial, Metric: MetricLikesGiven, Threshold: 1, Rarity: RarityRare, IsSeasonal: true, IsActive: false},

	{Slug: MetaSlug, Name: "Legend", Description: "Unlock every other achievement",
		Kind: KindMeta, Category: CategorySpecial, Rarity: RarityLegendary, IsActive: true},
}

// DefaultCatalog builds the production catalog.
func DefaultCatalog() *Catalog {
	return MustCatalog(CatalogVersion, DefaultDefinitions)
}
