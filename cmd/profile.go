package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/s0up4200/tonplace/tonplace"
)

var (
	searchParams tonplace.SearchParams
	followParams tonplace.FollowParams
	profileEdit  tonplace.ProfileEdit
)

var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Show the logged-in account",
	Args:  cobra.NoArgs,
	RunE: runAPI(func(ctx context.Context, api tonplace.API, _ []string) (*tonplace.Result, error) {
		return api.GetMe(ctx)
	}),
}

var userCmd = &cobra.Command{
	Use:   "user <id>...",
	Short: "Show user profiles",
	Args:  cobra.MinimumNArgs(1),
	RunE: runAPI(func(ctx context.Context, api tonplace.API, args []string) (*tonplace.Result, error) {
		return fetchAll(ctx, args, api.GetUser)
	}),
}

var groupCmd = &cobra.Command{
	Use:   "group <id>...",
	Short: "Show groups",
	Args:  cobra.MinimumNArgs(1),
	RunE: runAPI(func(ctx context.Context, api tonplace.API, args []string) (*tonplace.Result, error) {
		return fetchAll(ctx, args, api.GetGroup)
	}),
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search people and groups",
	Args:  cobra.MaximumNArgs(1),
	RunE: runAPI(func(ctx context.Context, api tonplace.API, args []string) (*tonplace.Result, error) {
		params := searchParams
		if len(args) == 1 {
			params.Query = args[0]
		}
		return api.Search(ctx, params)
	}),
}

var followCmd = &cobra.Command{
	Use:   "follow <user-id>",
	Short: "Follow a user",
	Args:  cobra.ExactArgs(1),
	RunE: runAPI(func(ctx context.Context, api tonplace.API, args []string) (*tonplace.Result, error) {
		id, err := parseID(args[0])
		if err != nil {
			return nil, err
		}
		return api.Follow(ctx, id)
	}),
}

var unfollowCmd = &cobra.Command{
	Use:   "unfollow <user-id>",
	Short: "Unfollow a user",
	Args:  cobra.ExactArgs(1),
	RunE: runAPI(func(ctx context.Context, api tonplace.API, args []string) (*tonplace.Result, error) {
		id, err := parseID(args[0])
		if err != nil {
			return nil, err
		}
		return api.Unfollow(ctx, id)
	}),
}

var followersCmd = &cobra.Command{
	Use:   "followers <user-id>",
	Short: "List followers (inbox) or followed accounts (outbox)",
	Args:  cobra.ExactArgs(1),
	RunE: runAPI(func(ctx context.Context, api tonplace.API, args []string) (*tonplace.Result, error) {
		id, err := parseID(args[0])
		if err != nil {
			return nil, err
		}
		params := followParams
		params.UserID = id
		return api.GetFollow(ctx, params)
	}),
}

var profileEditCmd = &cobra.Command{
	Use:   "profile-edit",
	Short: "Edit the account profile",
	Args:  cobra.NoArgs,
	RunE: runAPI(func(ctx context.Context, api tonplace.API, _ []string) (*tonplace.Result, error) {
		return api.EditProfile(ctx, profileEdit)
	}),
}

var domainCmd = &cobra.Command{
	Use:   "domain",
	Short: "Check or change the profile short name",
}

var domainCheckCmd = &cobra.Command{
	Use:   "check <domain>",
	Short: "Check whether a short name is available",
	Args:  cobra.ExactArgs(1),
	RunE: runAPI(func(ctx context.Context, api tonplace.API, args []string) (*tonplace.Result, error) {
		return api.CheckDomain(ctx, args[0])
	}),
}

var domainChangeCmd = &cobra.Command{
	Use:   "change <domain>",
	Short: "Change the profile short name",
	Args:  cobra.ExactArgs(1),
	RunE: runAPI(func(ctx context.Context, api tonplace.API, args []string) (*tonplace.Result, error) {
		return api.ChangeDomain(ctx, args[0])
	}),
}

var referralsCmd = &cobra.Command{
	Use:   "referrals",
	Short: "List invited friends",
	Args:  cobra.NoArgs,
	RunE: runAPI(func(ctx context.Context, api tonplace.API, _ []string) (*tonplace.Result, error) {
		return api.GetReferrals(ctx)
	}),
}

func init() {
	rootCmd.AddCommand(meCmd, userCmd, groupCmd, searchCmd, followCmd, unfollowCmd,
		followersCmd, profileEditCmd, domainCmd, referralsCmd)
	domainCmd.AddCommand(domainCheckCmd, domainChangeCmd)

	searchCmd.Flags().StringVar(&searchParams.Tab, "tab", tonplace.TabExplore, "tab to search (explore, peoples, groups)")
	searchCmd.Flags().StringVar(&searchParams.Sort, "sort", tonplace.SortPopular, "ordering (popular, new, online)")
	searchCmd.Flags().IntVar(&searchParams.City, "city", 0, "city id")
	searchCmd.Flags().IntVar(&searchParams.StartFrom, "start", 0, "offset of the first result")
	searchCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")

	followersCmd.Flags().StringVar(&followParams.Query, "query", "", "search within the list")
	followersCmd.Flags().StringVar(&followParams.Type, "type", tonplace.FollowersInbox, "inbox (followers) or outbox (following)")
	followersCmd.Flags().IntVar(&followParams.StartFrom, "start", 0, "offset of the first result")
	followersCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")

	profileEditCmd.Flags().StringVar(&profileEdit.FirstName, "first-name", "", "first name")
	profileEditCmd.Flags().StringVar(&profileEdit.LastName, "last-name", "", "last name")
	profileEditCmd.Flags().IntVar(&profileEdit.BirthDay, "bday", 0, "day of birth")
	profileEditCmd.Flags().IntVar(&profileEdit.BirthMonth, "bmonth", 0, "month of birth")
	profileEditCmd.Flags().IntVar(&profileEdit.BirthYear, "byear", 0, "year of birth")
	profileEditCmd.Flags().IntVar(&profileEdit.CityID, "city", 0, "city id")
	profileEditCmd.Flags().IntVar(&profileEdit.CountryID, "country", 0, "country id")
	profileEditCmd.Flags().IntVar(&profileEdit.Sex, "sex", 0, "sex code")
}
