package models

// CardType splits the deck into the four behavioral families.
type CardType string

const (
	CardTypeEvent     CardType = "event"
	CardTypeDetective CardType = "detective"
	CardTypeDevious   CardType = "devious"
	CardTypeInstant   CardType = "instant"
)

// Card names. Handlers dispatch on these strings.
const (
	CardEarlyTrainToPaddington  = "early-train-to-paddington"
	CardCardsOffTheTable        = "cards-off-the-table"
	CardLookIntoTheAshes        = "look-into-the-ashes"
	CardAndThenThereWasOneMore  = "and-then-there-was-one-more"
	CardAnotherVictim           = "another-victim"
	CardCardTrade               = "card-trade"
	CardDeadCardFolly           = "dead-card-folly"
	CardDelayTheMurderersEscape = "delay-the-murderers-escape"
	CardPointYourSuspicions     = "point-your-suspicions"
	CardBlackmailed             = "blackmailed"
	CardSocialFauxPas           = "social-faux-pas"
	CardNotSoFast               = "not-so-fast"

	CardHarleyQuinWildcard   = "harley-quin-wildcard"
	CardAriadneOliver        = "ariadne-oliver"
	CardMissMarple           = "miss-marple"
	CardParkerPyne           = "parker-pyne"
	CardTommyBeresford       = "tommy-beresford"
	CardLadyEileenBundle     = "lady-eileen-bundle-brent"
	CardTuppenceBeresford    = "tuppence-beresford"
	CardHerculePoirot        = "hercule-poirot"
	CardMrSatterthwaite      = "mr-satterthwaite"
)

// SentinelTurnDiscarded marks cards swept into the discard pile by an effect
// rather than discarded on a real turn.
const SentinelTurnDiscarded = -1

// Card is a physical card. PileOrder is its shuffle position in the draw
// pile; Owner nil with TurnDiscarded nil means it still sits in the pile,
// Owner nil with TurnDiscarded set means it is in the discard pile. SetID
// links detective cards into a played set.
type Card struct {
	ID             int64    `json:"id"`
	GameID         int64    `json:"game_id"`
	Name           string   `json:"name"`
	CardType       CardType `json:"card_type"`
	Content        string   `json:"content"`
	Owner          *int64   `json:"owner"`
	PileOrder      int      `json:"pile_order"`
	TurnDiscarded  *int     `json:"turn_discarded"`
	DiscardedOrder *int     `json:"discarded_order"`
	TurnPlayed     *int     `json:"turn_played"`
	SetID          *int64   `json:"set_id"`
}

// DetectiveNames are the names that may anchor a detective set.
var DetectiveNames = []string{
	CardHarleyQuinWildcard,
	CardAriadneOliver,
	CardMissMarple,
	CardParkerPyne,
	CardTommyBeresford,
	CardLadyEileenBundle,
	CardTuppenceBeresford,
	CardHerculePoirot,
	CardMrSatterthwaite,
}
