package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/openbhoukal/emergency-contacts/client"
	"github.com/openbhoukal/emergency-contacts/refdata"
	"github.com/spf13/cobra"
)

var (
	searchArg   string
	statusArg   string
	orderingArg string
	pageArg     int
	pageSizeArg int

	firstNameArg        string
	lastNameArg         string
	emailArg            string
	countryCodeArg      string
	mobileNumberArg     string
	notificationTypeArg string
	groupsArg           []string
	eventTypesArg       []string
	contactStatusArg    string
)

func init() {
	rootCmd.AddCommand(createContactsCmd())
}

func createContactsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Manage emergency contacts on a running contact store server",
	}

	cmd.AddCommand(
		createListCmd(),
		createGetCmd(),
		createCreateCmd(),
		createUpdateCmd(),
		createDeleteCmd(),
		createCountryCodesCmd(),
	)

	return cmd
}

func createListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contacts with optional search/filter/sort/paging",
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := apiClient().List(context.Background(), client.ListParams{
				Search:   searchArg,
				Status:   statusArg,
				Ordering: orderingArg,
				Page:     pageArg,
				PageSize: pageSizeArg,
			})
			if err != nil {
				return describeAPIError(err)
			}

			writer := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
			fmt.Fprintln(writer, "ID\tNAME\tEMAIL\tMOBILE\tSTATUS\tEVENT TYPES")
			for _, contact := range page.Results {
				fmt.Fprintf(writer, "%v\t%v %v\t%v\t%v %v\t%v\t%v\n",
					contact.ID,
					contact.FirstName, contact.LastName,
					contact.Email,
					contact.CountryCode, contact.MobileNumber,
					contact.Status,
					strings.Join(contact.EventTypes, ","),
				)
			}
			writer.Flush()

			fmt.Printf("\npage %v of %v (%v contacts)\n", page.Page, page.TotalPages, page.Count)
			return nil
		},
	}

	cmd.Flags().StringVarP(&searchArg, "search", "s", "", "search across name, email & mobile number")
	cmd.Flags().StringVar(&statusArg, "status", "", "filter by status i.e. ACTIVE or INACTIVE")
	cmd.Flags().StringVarP(&orderingArg, "ordering", "o", "", "sort field, prefix with '-' for descending e.g. -last_name")
	cmd.Flags().IntVarP(&pageArg, "page", "p", 1, "page number")
	cmd.Flags().IntVar(&pageSizeArg, "page-size", 10, "contacts per page (max 100)")

	return cmd
}

func createGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [id]",
		Short: "Show a single contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseContactID(args[0])
			if err != nil {
				return err
			}

			contact, err := apiClient().Get(context.Background(), id)
			if err != nil {
				return describeAPIError(err)
			}

			printContact(contact)
			return nil
		},
	}
}

func createCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new contact",
		RunE: func(cmd *cobra.Command, args []string) error {
			form := client.NewFormState()
			applyContactFlags(cmd, &form)

			if errs := form.Validate(); len(errs) > 0 {
				return fieldErrors(errs)
			}

			contact, err := apiClient().Create(context.Background(), form.Params())
			if err != nil {
				return describeAPIError(err)
			}

			fmt.Println("Contact created.")
			printContact(contact)
			return nil
		},
	}

	addContactFlags(cmd)
	cmd.MarkFlagRequired("first-name")
	cmd.MarkFlagRequired("last-name")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("event-types")

	return cmd
}

func createUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Update an existing contact",
		Long: `Loads the contact, pre-populates the form with its current values,
applies the given flags on top and submits a full update.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseContactID(args[0])
			if err != nil {
				return err
			}

			existing, err := apiClient().Get(context.Background(), id)
			if err != nil {
				return describeAPIError(err)
			}

			form := client.NewFormStateFromContact(existing)
			applyContactFlags(cmd, &form)

			if errs := form.Validate(); len(errs) > 0 {
				return fieldErrors(errs)
			}

			contact, err := apiClient().Update(context.Background(), id, form.Params())
			if err != nil {
				return describeAPIError(err)
			}

			fmt.Println("Contact updated.")
			printContact(contact)
			return nil
		},
	}

	addContactFlags(cmd)

	return cmd
}

func createDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseContactID(args[0])
			if err != nil {
				return err
			}

			if err := apiClient().Delete(context.Background(), id); err != nil {
				return describeAPIError(err)
			}

			fmt.Println("Contact deleted.")
			return nil
		},
	}
}

func createCountryCodesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "country-codes",
		Short: "List the known country calling codes",
		Run: func(cmd *cobra.Command, args []string) {
			writer := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
			fmt.Fprintln(writer, "COUNTRY\tDIAL CODE")
			for _, entry := range refdata.CountryCodes {
				fmt.Fprintf(writer, "%v\t%v\n", entry.Country, entry.DialCode)
			}
			writer.Flush()
		},
	}
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func apiClient() *client.Client {
	baseURL := config.GetString("api.baseUrl")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}

	return client.New(baseURL)
}

func addContactFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&firstNameArg, "first-name", "", "contact's first name")
	cmd.Flags().StringVar(&lastNameArg, "last-name", "", "contact's last name")
	cmd.Flags().StringVar(&emailArg, "email", "", "contact's email (unique)")
	cmd.Flags().StringVar(&countryCodeArg, "country-code", "", "country calling code e.g. +91")
	cmd.Flags().StringVar(&mobileNumberArg, "mobile", "", "mobile number")
	cmd.Flags().StringVar(&notificationTypeArg, "notification-type", "", "ALL_USERS or GROUPS")
	cmd.Flags().StringSliceVar(&groupsArg, "groups", nil, "notification groups, required when notification-type is GROUPS")
	cmd.Flags().StringSliceVar(&eventTypesArg, "event-types", nil, "event types that notify this contact e.g. SOS,911")
	cmd.Flags().StringVar(&contactStatusArg, "status", "", "ACTIVE or INACTIVE")
}

// applyContactFlags overlays the flags the user actually set onto the form.
func applyContactFlags(cmd *cobra.Command, form *client.FormState) {
	if cmd.Flags().Changed("first-name") {
		form.FirstName = firstNameArg
	}
	if cmd.Flags().Changed("last-name") {
		form.LastName = lastNameArg
	}
	if cmd.Flags().Changed("email") {
		form.Email = emailArg
	}
	if cmd.Flags().Changed("country-code") {
		form.CountryCode = countryCodeArg
		if !refdata.ValidDialCode(countryCodeArg) {
			fmt.Printf("%v %v is not a known country calling code\n", warningLabel, countryCodeArg)
		}
	}
	if cmd.Flags().Changed("mobile") {
		form.MobileNumber = mobileNumberArg
	}
	if cmd.Flags().Changed("notification-type") {
		form.SetNotificationType(notificationTypeArg)
	}
	if cmd.Flags().Changed("groups") {
		form.NotificationGroups = groupsArg
	}
	if cmd.Flags().Changed("event-types") {
		form.EventTypes = eventTypesArg
	}
	if cmd.Flags().Changed("status") {
		form.Status = contactStatusArg
	}
}

func parseContactID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return 0, formattedError("invalid contact id: %v", arg)
	}

	return uint(id), nil
}

func printContact(contact *client.Contact) {
	writer := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintf(writer, "ID:\t%v\n", contact.ID)
	fmt.Fprintf(writer, "Name:\t%v %v\n", contact.FirstName, contact.LastName)
	fmt.Fprintf(writer, "Email:\t%v\n", contact.Email)
	fmt.Fprintf(writer, "Mobile:\t%v %v\n", contact.CountryCode, contact.MobileNumber)
	fmt.Fprintf(writer, "Notify:\t%v\n", contact.EventNotificationType)
	if len(contact.EventNotificationGroups) > 0 {
		fmt.Fprintf(writer, "Groups:\t%v\n", strings.Join(contact.EventNotificationGroups, ", "))
	}
	fmt.Fprintf(writer, "Event types:\t%v\n", strings.Join(contact.EventTypes, ", "))
	fmt.Fprintf(writer, "Status:\t%v\n", contact.Status)
	fmt.Fprintf(writer, "Updated:\t%v\n", contact.UpdatedAt)
	writer.Flush()
}

// fieldErrors flattens a field-keyed report into a single CLI error.
func fieldErrors(errs map[string][]string) error {
	lines := []string{}
	for field, messages := range errs {
		for _, message := range messages {
			lines = append(lines, fmt.Sprintf("%v: %v", field, message))
		}
	}

	return errors.New(strings.Join(lines, "\n"))
}

// describeAPIError keeps the server's field-keyed details readable on the
// terminal; other errors pass through untouched.
func describeAPIError(err error) error {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	if len(apiErr.Details) > 0 {
		return fmt.Errorf("%v\n%v", apiErr.Message, fieldErrors(apiErr.Details))
	}

	return errors.New(apiErr.Message)
}
